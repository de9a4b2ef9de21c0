package mysql

import (
	"context"

	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/prm/internal/partner/domain"
	"gorm.io/gorm"
)

type activityRepository struct{ db *gorm.DB }

func NewActivityRepository(db *gorm.DB) domain.ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *activityRepository) Save(ctx context.Context, activity *domain.PartnerActivity) error {
	return r.getDB(ctx).Save(activity).Error
}

func (r *activityRepository) ListByPartnerIDs(ctx context.Context, userID string, partnerIDs []string) ([]*domain.PartnerActivity, error) {
	if len(partnerIDs) == 0 {
		return nil, nil
	}
	var activities []*domain.PartnerActivity
	err := r.getDB(ctx).
		Where("user_id = ? AND partner_id IN ?", userID, partnerIDs).
		Find(&activities).Error
	return activities, err
}

func (r *activityRepository) ListByPartner(ctx context.Context, userID, partnerID string) ([]*domain.PartnerActivity, error) {
	var activities []*domain.PartnerActivity
	err := r.getDB(ctx).
		Where("user_id = ? AND partner_id = ?", userID, partnerID).
		Order("created_at DESC").
		Find(&activities).Error
	return activities, err
}
