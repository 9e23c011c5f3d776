package gamification

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/techplay/core/internal/pkg/response"
)

const defaultLeaderboardSize = 10

type Handler struct {
	achievements *AchievementService
	leaderboard  *Leaderboard
}

func NewHandler(achievements *AchievementService, leaderboard *Leaderboard) *Handler {
	return &Handler{achievements: achievements, leaderboard: leaderboard}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/leaderboard", h.getLeaderboard)
	rg.GET("/achievements", h.listAchievements)
	rg.GET("/users/:id/achievements", h.listUserAchievements)
}

func (h *Handler) getLeaderboard(c *gin.Context) {
	size := defaultLeaderboardSize
	if raw := c.Query("size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			size = n
		}
	}
	entries, err := h.leaderboard.TopN(c.Request.Context(), size)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, entries)
}

func (h *Handler) listAchievements(c *gin.Context) {
	list, err := h.achievements.ListAll(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, list)
}

func (h *Handler) listUserAchievements(c *gin.Context) {
	list, err := h.achievements.ListForUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, list)
}
