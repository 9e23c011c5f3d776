package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/techplay/core/internal/models"
	"github.com/techplay/core/internal/pkg/jwt"
	"github.com/techplay/core/internal/pkg/response"
	"gorm.io/gorm"
)

const (
	// ContextKeyUser holds the resolved *models.UserModel for the request.
	ContextKeyUser = "current_user"
)

// Auth returns a middleware that enforces JWT authentication and resolves
// the acting user. Downstream code receives the actor explicitly via
// CurrentUser, never through a global accessor.
func Auth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolveUser(db, extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// OptionalAuth resolves the user if a valid token is present, but does not
// block the request.
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := resolveUser(db, extractToken(c)); err == nil {
			c.Set(ContextKeyUser, user)
		}
		c.Next()
	}
}

// RequireEditor blocks users below the editor role. Must run after Auth.
func RequireEditor() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsEditor() {
			response.Forbidden(c)
			return
		}
		c.Next()
	}
}

// RequireAdmin blocks users below the admin role. Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			response.Forbidden(c)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user of this request, or nil.
func CurrentUser(c *gin.Context) *models.UserModel {
	v, ok := c.Get(ContextKeyUser)
	if !ok {
		return nil
	}
	user, _ := v.(*models.UserModel)
	return user
}

// IsAuthenticated reports whether the request carries a resolved user.
func IsAuthenticated(c *gin.Context) bool { return CurrentUser(c) != nil }

func resolveUser(db *gorm.DB, rawToken string) (*models.UserModel, error) {
	token := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rawToken), "Bearer "))
	if token == "" {
		return nil, errors.New("token is required")
	}

	claims, err := jwt.Parse(token)
	if err != nil {
		return nil, err
	}

	var user models.UserModel
	if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}

func extractToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		return h
	}
	return c.Query("token")
}
