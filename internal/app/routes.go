package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techplay/core/internal/middleware"
	"github.com/techplay/core/internal/modules/activity"
	"github.com/techplay/core/internal/modules/content/article"
	"github.com/techplay/core/internal/modules/content/comment"
	"github.com/techplay/core/internal/modules/forum"
	"github.com/techplay/core/internal/modules/gamification"
	"github.com/techplay/core/internal/modules/review"
	"github.com/techplay/core/internal/modules/user"
	"github.com/techplay/core/internal/pkg/response"
)

func (a *App) registerRoutes() {
	r := a.router
	db := a.db
	authMW := middleware.Auth(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})

	api := r.Group("/api/v1")
	api.Use(middleware.OptionalAuth(db))

	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": "pong"})
	})

	user.NewHandler(user.NewService(db)).RegisterRoutes(api, authMW)

	articleSvc := article.NewService(db, a.svc.dispatcher)
	article.NewHandler(articleSvc, a.svc.cache, a.svc.revisions).RegisterRoutes(api, authMW)

	commentSvc := comment.NewService(db, a.svc.dispatcher)
	comment.NewHandler(commentSvc).RegisterRoutes(api, authMW)

	forumSvc := forum.NewService(db, a.svc.dispatcher, a.logger.Named("forum"))
	forum.NewHandler(forumSvc).RegisterRoutes(api, authMW)

	reviewSvc := review.NewService(db, a.svc.dispatcher)
	review.NewHandler(reviewSvc).RegisterRoutes(api, authMW)

	gamification.NewHandler(a.svc.achievements, a.svc.leaderboard).RegisterRoutes(api)
	activity.NewHandler(a.svc.activity).RegisterRoutes(api, authMW)

	a.registerCronRoutes(api, authMW)
}

// registerCronRoutes exposes the scheduler to administrators: job listing
// and manual trigger, mirroring what the ops dashboard consumes.
func (a *App) registerCronRoutes(api *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := api.Group("/cron", authMW, middleware.RequireAdmin())
	g.GET("", func(c *gin.Context) {
		response.OK(c, a.sched.List())
	})
	g.POST("/:name/run", func(c *gin.Context) {
		// Detached context: the job outlives the HTTP request.
		if err := a.sched.Run(context.Background(), c.Param("name")); err != nil {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.NoContent(c)
	})
}
