package mysql

import (
	"context"

	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/prm/internal/health/domain"
	"gorm.io/gorm"
)

type alertRepository struct{ db *gorm.DB }

func NewAlertRepository(db *gorm.DB) domain.AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *alertRepository) Insert(ctx context.Context, alert *domain.PartnerAlert) error {
	return r.getDB(ctx).Create(alert).Error
}

func (r *alertRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.PartnerAlert, error) {
	var alerts []*domain.PartnerAlert
	err := r.getDB(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&alerts).Error
	return alerts, err
}

func (r *alertRepository) CountUnresolved(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.getDB(ctx).
		Model(&domain.PartnerAlert{}).
		Where("user_id = ? AND resolved = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *alertRepository) Resolve(ctx context.Context, userID, alertID string) error {
	return r.getDB(ctx).
		Model(&domain.PartnerAlert{}).
		Where("user_id = ? AND alert_id = ?", userID, alertID).
		Update("resolved", true).Error
}
