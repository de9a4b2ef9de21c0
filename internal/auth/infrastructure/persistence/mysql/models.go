// Package mysql 认证 MySQL 仓储实现
package mysql

import (
	"time"

	"github.com/wyfcoding/prm/internal/auth/domain"
)

// UserModel MySQL 用户表映射
type UserModel struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
	UserID       string    `gorm:"column:user_id;type:varchar(64);uniqueIndex;not null"`
	Email        string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null"`
	Name         string    `gorm:"column:name;type:varchar(255)"`
	Role         string    `gorm:"column:role;type:varchar(20);default:'MANAGER';not null"`
}

func (UserModel) TableName() string {
	return "users"
}

func toUserModel(user *domain.User) *UserModel {
	if user == nil {
		return nil
	}
	return &UserModel{
		ID:           user.ID,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
		UserID:       user.UserID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Name:         user.Name,
		Role:         string(user.Role),
	}
}

func toUser(model *UserModel) *domain.User {
	if model == nil {
		return nil
	}
	return &domain.User{
		ID:           model.ID,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
		UserID:       model.UserID,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		Name:         model.Name,
		Role:         domain.UserRole(model.Role),
	}
}
