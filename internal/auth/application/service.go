// Package application 认证应用服务
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wyfcoding/pkg/idgen"
	"github.com/wyfcoding/prm/internal/auth/domain"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 24 * time.Hour

// RegisterCommand 注册命令
type RegisterCommand struct {
	Email    string
	Password string
	Name     string
}

// LoginCommand 登录命令
type LoginCommand struct {
	Email    string
	Password string
}

// AuthService 认证应用服务
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	logger   *slog.Logger
}

func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		logger:   logger.With("module", "auth_service"),
	}
}

// Register 注册用户
func (s *AuthService) Register(ctx context.Context, cmd RegisterCommand) (string, error) {
	existing, err := s.users.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user := domain.NewUser(fmt.Sprintf("USR%s", idgen.GenIDString()), cmd.Email, string(hash), cmd.Name)
	if err := s.users.Save(ctx, user); err != nil {
		return "", err
	}

	return user.UserID, nil
}

// Login 登录并签发 Bearer 会话令牌
func (s *AuthService) Login(ctx context.Context, cmd LoginCommand) (string, int64, error) {
	user, err := s.users.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return "", 0, err
	}
	if user == nil {
		return "", 0, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)) != nil {
		return "", 0, domain.ErrInvalidCredentials
	}

	now := time.Now()
	session := &domain.AuthSession{
		Token:     idgen.GenShortID(32),
		UserID:    user.UserID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return "", 0, err
	}

	return session.Token, session.ExpiresAt.Unix(), nil
}

// Logout 注销会话
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ValidateToken 将 Bearer 令牌解析为用户 id；核心入口都显式传递该 id
func (s *AuthService) ValidateToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthorized
	}
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return "", err
	}
	if session == nil || session.IsExpired() {
		return "", domain.ErrUnauthorized
	}
	return session.UserID, nil
}
