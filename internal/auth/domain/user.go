// Package domain 认证领域模型
package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleManager UserRole = "MANAGER"
)

// User 仪表盘用户；UserID 是对外主键，所有伙伴数据按它隔离
type User struct {
	ID           uint      `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         UserRole  `json:"role"`
}

func NewUser(userID, email, passwordHash, name string) *User {
	return &User{
		UserID:       userID,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         RoleManager,
	}
}

// UserRepository 用户仓储接口
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUserID(ctx context.Context, userID string) (*User, error)
}
