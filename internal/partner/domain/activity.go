package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ActivityType CRM 活动类型
type ActivityType string

const (
	ActivityTypeMeeting   ActivityType = "meeting"
	ActivityTypeCall      ActivityType = "call"
	ActivityTypeVideoCall ActivityType = "video_call"
	ActivityTypeEmail     ActivityType = "email"
	ActivityTypeTask      ActivityType = "task"
	ActivityTypeNote      ActivityType = "note"
)

// ActivityStatus 活动状态
type ActivityStatus string

const (
	ActivityStatusScheduled ActivityStatus = "scheduled"
	ActivityStatusCompleted ActivityStatus = "completed"
	ActivityStatusCancelled ActivityStatus = "cancelled"
	ActivityStatusPending   ActivityStatus = "pending"
)

// PartnerActivity CRM 活动实体（健康评分的只读输入）
type PartnerActivity struct {
	gorm.Model
	ActivityID  string         `gorm:"column:activity_id;type:varchar(64);uniqueIndex;not null" json:"activity_id"`
	PartnerID   string         `gorm:"column:partner_id;type:varchar(64);index;not null" json:"partner_id"`
	UserID      string         `gorm:"column:user_id;type:varchar(64);index;not null" json:"user_id"`
	Type        ActivityType   `gorm:"column:type;type:varchar(20);not null" json:"type"`
	Status      ActivityStatus `gorm:"column:status;type:varchar(20);default:'scheduled'" json:"status"`
	Title       string         `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Notes       string         `gorm:"column:notes;type:text" json:"notes"`
	ScheduledAt *time.Time     `gorm:"column:scheduled_at" json:"scheduled_at"`
}

func (PartnerActivity) TableName() string { return "partner_activities" }

// IsMeetingLike 会议类活动（计入本月会议数）
func (a *PartnerActivity) IsMeetingLike() bool {
	switch a.Type {
	case ActivityTypeMeeting, ActivityTypeCall, ActivityTypeVideoCall:
		return true
	}
	return false
}

// ActivityRepository 活动仓储接口
type ActivityRepository interface {
	Save(ctx context.Context, activity *PartnerActivity) error
	// ListByPartnerIDs 按伙伴 id 集合批量拉取，供评分任务一次性读出
	ListByPartnerIDs(ctx context.Context, userID string, partnerIDs []string) ([]*PartnerActivity, error)
	ListByPartner(ctx context.Context, userID, partnerID string) ([]*PartnerActivity, error)
}
