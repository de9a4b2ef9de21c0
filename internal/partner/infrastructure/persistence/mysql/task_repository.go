package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/prm/internal/partner/domain"
	"gorm.io/gorm"
)

type taskRepository struct{ db *gorm.DB }

func NewTaskRepository(db *gorm.DB) domain.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *taskRepository) Save(ctx context.Context, task *domain.PartnerTask) error {
	return r.getDB(ctx).Save(task).Error
}

func (r *taskRepository) GetByTaskID(ctx context.Context, userID, taskID string) (*domain.PartnerTask, error) {
	var t domain.PartnerTask
	err := r.getDB(ctx).
		Where("user_id = ? AND task_id = ?", userID, taskID).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskRepository) ListByPartnerIDs(ctx context.Context, userID string, partnerIDs []string) ([]*domain.PartnerTask, error) {
	if len(partnerIDs) == 0 {
		return nil, nil
	}
	var tasks []*domain.PartnerTask
	err := r.getDB(ctx).
		Where("user_id = ? AND partner_id IN ?", userID, partnerIDs).
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) ListByPartner(ctx context.Context, userID, partnerID string) ([]*domain.PartnerTask, error) {
	var tasks []*domain.PartnerTask
	err := r.getDB(ctx).
		Where("user_id = ? AND partner_id = ?", userID, partnerID).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}
