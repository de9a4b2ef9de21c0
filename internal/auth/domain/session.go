package domain

import (
	"context"
	"time"
)

// AuthSession Bearer 会话（仅存 Redis）
type AuthSession struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *AuthSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// SessionRepository 会话仓储接口
type SessionRepository interface {
	Save(ctx context.Context, session *AuthSession) error
	Get(ctx context.Context, token string) (*AuthSession, error)
	Delete(ctx context.Context, token string) error
}
