package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertUser(ctx context.Context, db *gorm.DB, user *User) error
	FindUserByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*User, error)
	FindUserByUsername(ctx context.Context, db *gorm.DB, username string) (*User, error)
	ListUsers(ctx context.Context, db *gorm.DB) ([]*User, error)
	DeleteUser(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	FindGroupByName(ctx context.Context, db *gorm.DB, name string) (*Group, error)
	InsertGroup(ctx context.Context, db *gorm.DB, group *Group) error
	AddUserToGroup(ctx context.Context, db *gorm.DB, user *User, group *Group) error

	InsertSession(ctx context.Context, db *gorm.DB, session *Session) error
	FindSessionByToken(ctx context.Context, db *gorm.DB, token string) (*Session, error)
	DeleteSession(ctx context.Context, db *gorm.DB, token string) error
	DeleteSessionsForUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) error
}
