package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/techplay/core/internal/middleware"
	"github.com/techplay/core/internal/models"
	jwtpkg "github.com/techplay/core/internal/pkg/jwt"
	"github.com/techplay/core/internal/pkg/response"
)

type RegisterDTO struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
	Mail     string `json:"mail"`
}

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID            string      `json:"id"`
	Username      string      `json:"username"`
	Name          string      `json:"name"`
	Avatar        string      `json:"avatar"`
	Mail          string      `json:"mail"`
	Role          models.Role `json:"role"`
	XP            int64       `json:"xp"`
	LastLoginTime *time.Time  `json:"last_login_time"`
}

type publicUserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	XP       int64  `json:"xp"`
}

type loginResponse struct {
	Token string        `json:"token"`
	User  *userResponse `json:"user,omitempty"`
}

func toResponse(u *models.UserModel) *userResponse {
	return &userResponse{
		ID: u.ID, Username: u.Username, Name: u.Name,
		Avatar: u.Avatar, Mail: u.Mail, Role: u.Role, XP: u.XP,
		LastLoginTime: u.LastLoginTime,
	}
}

func toPublicResponse(u *models.UserModel) *publicUserResponse {
	return &publicUserResponse{
		ID: u.ID, Username: u.Username, Name: u.Name,
		Avatar: u.Avatar, XP: u.XP,
	}
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) GetByID(id string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (s *Service) Register(dto *RegisterDTO) (*models.UserModel, error) {
	var count int64
	s.db.Model(&models.UserModel{}).Where("username = ?", dto.Username).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("username already taken")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	name := dto.Name
	if name == "" {
		name = dto.Username
	}
	u := models.UserModel{
		Username: dto.Username,
		Password: string(hash),
		Name:     name,
		Mail:     dto.Mail,
		Role:     models.RoleMember,
	}
	return &u, s.db.Create(&u).Error
}

func (s *Service) Login(username, password string) (string, *models.UserModel, error) {
	var u models.UserModel
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, fmt.Errorf("user not found")
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("wrong password")
	}
	now := time.Now()
	s.db.Model(&u).UpdateColumn("last_login_time", now)
	u.LastLoginTime = &now

	token, err := jwtpkg.Sign(u.ID, 30*24*time.Hour)
	return token, &u, err
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	auth := rg.Group("/auth")
	auth.POST("/register", h.register)
	auth.POST("/login", h.login)

	users := rg.Group("/users")
	users.GET("/:id", h.getUser)

	me := rg.Group("/user", authMW)
	me.GET("", h.me)
}

func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Register(&dto)
	if err != nil {
		if err.Error() == "username already taken" {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, toResponse(u))
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, u, err := h.svc.Login(dto.Username, dto.Password)
	if err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	response.OK(c, loginResponse{Token: token, User: toResponse(u)})
}

func (h *Handler) getUser(c *gin.Context) {
	u, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toPublicResponse(u))
}

func (h *Handler) me(c *gin.Context) {
	response.OK(c, toResponse(middleware.CurrentUser(c)))
}
