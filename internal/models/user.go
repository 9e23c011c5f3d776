package models

import "time"

// Role controls what a user may do on the editorial side.
type Role string

const (
	RoleMember Role = "member"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// UserModel represents a registered TechPlay user.
// XP is only ever mutated through atomic additive updates; see the
// gamification module.
type UserModel struct {
	Base
	Username      string     `json:"username"  gorm:"uniqueIndex;not null"`
	Name          string     `json:"name"`
	Mail          string     `json:"mail"`
	Avatar        string     `json:"avatar"`
	Password      string     `json:"-"         gorm:"not null"`
	Role          Role       `json:"role"      gorm:"default:member;index"`
	XP            int64      `json:"xp"        gorm:"default:0"`
	LastLoginTime *time.Time `json:"last_login_time"`

	Achievements []AchievementModel `json:"achievements,omitempty" gorm:"many2many:user_achievements;joinForeignKey:UserID;joinReferences:AchievementID"`
}

func (UserModel) TableName() string { return "users" }

func (u *UserModel) IsEditor() bool { return u.Role == RoleEditor || u.Role == RoleAdmin }
func (u *UserModel) IsAdmin() bool  { return u.Role == RoleAdmin }
