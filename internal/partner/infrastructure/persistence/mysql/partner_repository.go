// Package mysql 合作伙伴 MySQL 仓储实现
package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/prm/internal/partner/domain"
	"gorm.io/gorm"
)

type partnerRepository struct{ db *gorm.DB }

func NewPartnerRepository(db *gorm.DB) domain.PartnerRepository {
	return &partnerRepository{db: db}
}

func (r *partnerRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *partnerRepository) Save(ctx context.Context, partner *domain.Partner) error {
	return r.getDB(ctx).Save(partner).Error
}

func (r *partnerRepository) GetByPartnerID(ctx context.Context, userID, partnerID string) (*domain.Partner, error) {
	var p domain.Partner
	err := r.getDB(ctx).
		Where("user_id = ? AND partner_id = ?", userID, partnerID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *partnerRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Partner, error) {
	var partners []*domain.Partner
	err := r.getDB(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&partners).Error
	return partners, err
}

// UpdatePriority 仅回写排名字段，避免覆盖并发的表单修改
func (r *partnerRepository) UpdatePriority(ctx context.Context, partnerID string, important bool, rank *int, focus domain.ParetoFocus) error {
	return r.getDB(ctx).
		Model(&domain.Partner{}).
		Where("partner_id = ?", partnerID).
		Updates(map[string]any{
			"is_important":  important,
			"priority_rank": rank,
			"pareto_focus":  focus,
		}).Error
}
