package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	RoleAppAdmin = "app_admin"
	RoleAppUser  = "app_user"

	GroupAppAdmin = "app_admin"
	GroupAppUser  = "app_user"
)

type User struct {
	ID           snowflake.ID `json:"id" gorm:"primaryKey"`
	Username     string       `json:"username" gorm:"uniqueIndex;size:150"`
	Email        string       `json:"email" gorm:"size:255"`
	FirstName    string       `json:"first_name" gorm:"size:150"`
	LastName     string       `json:"last_name" gorm:"size:150"`
	PasswordHash string       `json:"-" gorm:"size:255"`
	IsSuperuser  bool         `json:"-"`

	Groups []Group `json:"-" gorm:"many2many:user_groups"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Role derives the effective role: superusers and app_admin group members
// administer, everyone else is a regular user.
func (u *User) Role() string {
	if u.IsSuperuser {
		return RoleAppAdmin
	}
	for _, g := range u.Groups {
		if g.Name == GroupAppAdmin {
			return RoleAppAdmin
		}
	}
	return RoleAppUser
}

type Group struct {
	ID   snowflake.ID `json:"id" gorm:"primaryKey"`
	Name string       `json:"name" gorm:"uniqueIndex;size:150"`
}

func (Group) TableName() string { return "groups" }

type Session struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Token     string       `json:"-" gorm:"uniqueIndex;size:128"`
	UserID    snowflake.ID `json:"user_id" gorm:"index"`
	ExpiresAt time.Time    `json:"expires_at"`
	CreatedAt time.Time    `json:"created_at"`
}

func (Session) TableName() string { return "sessions" }
