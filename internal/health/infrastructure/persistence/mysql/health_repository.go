// Package mysql 健康指标与告警 MySQL 仓储实现
package mysql

import (
	"context"

	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/prm/internal/health/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type healthMetricsRepository struct{ db *gorm.DB }

func NewHealthMetricsRepository(db *gorm.DB) domain.HealthMetricsRepository {
	return &healthMetricsRepository{db: db}
}

func (r *healthMetricsRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Upsert 以 partner_id 为冲突键覆盖上一次评分
func (r *healthMetricsRepository) Upsert(ctx context.Context, metrics *domain.PartnerHealthMetrics) error {
	return r.getDB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "partner_id"}},
			UpdateAll: true,
		}).
		Create(metrics).Error
}

func (r *healthMetricsRepository) ListByUser(ctx context.Context, userID string) ([]*domain.PartnerHealthMetrics, error) {
	var metrics []*domain.PartnerHealthMetrics
	err := r.getDB(ctx).
		Where("user_id = ?", userID).
		Order("overall_score ASC").
		Find(&metrics).Error
	return metrics, err
}
