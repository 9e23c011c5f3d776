package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/techplay/core/internal/config"
	"github.com/techplay/core/internal/database"
	"github.com/techplay/core/internal/middleware"
	"github.com/techplay/core/internal/modules/activity"
	"github.com/techplay/core/internal/modules/content/article"
	"github.com/techplay/core/internal/modules/gamification"
	"github.com/techplay/core/internal/pipeline"
	pkgcron "github.com/techplay/core/internal/pkg/cron"
	jwtpkg "github.com/techplay/core/internal/pkg/jwt"
	pkgredis "github.com/techplay/core/internal/pkg/redis"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	logger *zap.Logger
	cancel context.CancelFunc
	sched  *pkgcron.Scheduler
	svc    *services
}

// services are the shared singletons built once at boot and threaded
// through route registration and cron jobs.
type services struct {
	ledger       *gamification.XPLedger
	achievements *gamification.AchievementService
	leaderboard  *gamification.Leaderboard
	activity     *activity.Service
	cache        *article.CacheService
	revisions    *article.RevisionRecorder
	dispatcher   *pipeline.Dispatcher
}

// New initializes the application: config → DB → Redis → pipeline → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if secret := strings.TrimSpace(cfg.JWTSecret); secret != "" {
		jwtpkg.SetSecret(secret)
	} else {
		logger.Warn("jwt_secret is empty, using built-in default secret")
	}

	db, err := database.Connect(cfg, false)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	rc, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	svc := buildServices(db, rc, cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	sched := pkgcron.New()
	registerCronJobs(sched, svc, cfg, logger)
	go sched.Start(ctx)

	app := &App{
		cfg:    cfg,
		router: router,
		db:     db,
		logger: logger,
		cancel: cancel,
		sched:  sched,
		svc:    svc,
	}
	app.registerRoutes()

	return app, nil
}

func buildServices(db *gorm.DB, rc *pkgredis.Client, cfg *config.AppConfig, logger *zap.Logger) *services {
	ledger := gamification.NewXPLedger(db)
	achievements := gamification.NewAchievementService(db)
	leaderboard := gamification.NewLeaderboard(db, rc, logger)
	activitySvc := activity.NewService(db)
	cacheSvc := article.NewCacheService(db, rc, cfg.Cache.ListSize, logger)
	revisions := article.NewRevisionRecorder(db)

	dispatcher := pipeline.NewDispatcher(db, logger, pipeline.Options{
		Ledger:            ledger,
		Evaluator:         achievements,
		Activity:          activitySvc,
		Cache:             cacheSvc,
		Revisions:         revisions,
		CountForumReplies: cfg.Gamification.CountForumReplies,
	})

	return &services{
		ledger:       ledger,
		achievements: achievements,
		leaderboard:  leaderboard,
		activity:     activitySvc,
		cache:        cacheSvc,
		revisions:    revisions,
		dispatcher:   dispatcher,
	}
}

func corsConfig(cfg *config.AppConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		c.AllowOriginFunc = func(origin string) bool {
			host := originHost(origin)
			for _, pattern := range patterns {
				if matchOrigin(pattern, host) {
					return true
				}
			}
			return false
		}
	} else {
		c.AllowOriginFunc = func(origin string) bool { return true }
	}
	return c
}

// originHost returns the "host[:port]" portion of an origin URL.
func originHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	return u.Host
}

// matchOrigin reports whether host matches the given wildcard pattern.
// "*.techplay.gg" matches any subdomain, "localhost:*" any port.
func matchOrigin(pattern, host string) bool {
	if pattern == host {
		return true
	}
	if strings.HasPrefix(pattern, "*.") {
		return strings.HasSuffix(host, pattern[1:])
	}
	if strings.HasSuffix(pattern, ":*") {
		return strings.HasPrefix(host, pattern[:len(pattern)-1])
	}
	return false
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown cleans up background goroutines.
func (a *App) Shutdown() { a.cancel() }
