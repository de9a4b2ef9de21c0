package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// TaskPriority 任务优先级
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// TaskStatus 任务状态
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// PartnerTask 待办任务实体（健康评分的只读输入）
type PartnerTask struct {
	gorm.Model
	TaskID    string       `gorm:"column:task_id;type:varchar(64);uniqueIndex;not null" json:"task_id"`
	PartnerID string       `gorm:"column:partner_id;type:varchar(64);index;not null" json:"partner_id"`
	UserID    string       `gorm:"column:user_id;type:varchar(64);index;not null" json:"user_id"`
	Title     string       `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Priority  TaskPriority `gorm:"column:priority;type:varchar(10);default:'medium'" json:"priority"`
	Status    TaskStatus   `gorm:"column:status;type:varchar(20);default:'todo'" json:"status"`
	DueDate   *time.Time   `gorm:"column:due_date" json:"due_date"`
}

func (PartnerTask) TableName() string { return "partner_tasks" }

// IsOpenIssue 未完成且高优先级的任务视为 open issue
func (t *PartnerTask) IsOpenIssue() bool {
	return t.Status != TaskStatusDone && t.Priority == TaskPriorityHigh
}

// TaskRepository 任务仓储接口
type TaskRepository interface {
	Save(ctx context.Context, task *PartnerTask) error
	GetByTaskID(ctx context.Context, userID, taskID string) (*PartnerTask, error)
	ListByPartnerIDs(ctx context.Context, userID string, partnerIDs []string) ([]*PartnerTask, error)
	ListByPartner(ctx context.Context, userID, partnerID string) ([]*PartnerTask, error)
}
