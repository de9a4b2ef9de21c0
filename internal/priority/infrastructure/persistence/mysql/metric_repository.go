// Package mysql 月度指标 MySQL 仓储实现
package mysql

import (
	"context"

	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/prm/internal/priority/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type monthlyMetricRepository struct{ db *gorm.DB }

func NewMonthlyMetricRepository(db *gorm.DB) domain.MonthlyMetricRepository {
	return &monthlyMetricRepository{db: db}
}

func (r *monthlyMetricRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Upsert 以 (partner_id, year, month) 为冲突键覆盖写入
func (r *monthlyMetricRepository) Upsert(ctx context.Context, metric *domain.PartnerMonthlyMetric) error {
	return r.getDB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "partner_id"}, {Name: "year"}, {Name: "month"}},
			UpdateAll: true,
		}).
		Create(metric).Error
}

func (r *monthlyMetricRepository) ListByUser(ctx context.Context, userID string) ([]*domain.PartnerMonthlyMetric, error) {
	var rows []*domain.PartnerMonthlyMetric
	err := r.getDB(ctx).
		Where("user_id = ?", userID).
		Order("year DESC, month DESC").
		Find(&rows).Error
	return rows, err
}
