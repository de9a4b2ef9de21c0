// Package domain 伙伴健康评分领域模型与计算规则
package domain

import (
	"context"
	"math"
	"time"

	partnerdomain "github.com/wyfcoding/prm/internal/partner/domain"
	"gorm.io/gorm"
)

// HealthStatus 健康状态档位
type HealthStatus string

const (
	HealthExcellent HealthStatus = "excellent"
	HealthGood      HealthStatus = "good"
	HealthWarning   HealthStatus = "warning"
	HealthCritical  HealthStatus = "critical"
)

const (
	// NoContactSentinelDays 从未有过任何活动时的哨兵值
	NoContactSentinelDays = 999

	// RecentWindowDays 近期活动统计窗口
	RecentWindowDays = 30

	// 整体分的加权系数
	WeightPerformance = 0.4
	WeightEngagement  = 0.3
	WeightCommercial  = 0.3

	// 失联阈值
	StaleContactDays    = 30
	SevereNoContactDays = 60

	// 高优先级未决任务的告警阈值
	OpenIssueAlertThreshold = 3
)

// Calculation 单个伙伴的一次评分结果
type Calculation struct {
	PartnerID         string       `json:"partner_id"`
	PerformanceScore  int          `json:"performance_score"`
	EngagementScore   int          `json:"engagement_score"`
	CommercialScore   int          `json:"commercial_score"`
	OverallScore      int          `json:"overall_score"`
	HealthStatus      HealthStatus `json:"health_status"`
	LastActivityAt    *time.Time   `json:"last_activity_date"`
	DaysSinceContact  int          `json:"days_since_last_contact"`
	MeetingsThisMonth int          `json:"meetings_this_month"`
	OpenIssuesCount   int          `json:"open_issues_count"`
}

// Calculate 按活动与任务历史计算伙伴健康分
// 各分项先截断到 [0,100]，整体分为加权和四舍五入
func Calculate(partnerID string, activities []*partnerdomain.PartnerActivity, tasks []*partnerdomain.PartnerTask, now time.Time) Calculation {
	var lastActivity *partnerdomain.PartnerActivity
	for _, a := range activities {
		if lastActivity == nil || a.CreatedAt.After(lastActivity.CreatedAt) {
			lastActivity = a
		}
	}

	daysSinceContact := NoContactSentinelDays
	var lastActivityAt *time.Time
	if lastActivity != nil {
		t := lastActivity.CreatedAt
		lastActivityAt = &t
		daysSinceContact = int(now.Sub(t).Hours() / 24)
	}

	recentCutoff := now.AddDate(0, 0, -RecentWindowDays)
	recentCount := 0
	meetingsThisMonth := 0
	completedActivities := 0
	for _, a := range activities {
		if !a.CreatedAt.Before(recentCutoff) {
			recentCount++
			if a.IsMeetingLike() {
				meetingsThisMonth++
			}
		}
		if a.Status == partnerdomain.ActivityStatusCompleted {
			completedActivities++
		}
	}

	openIssues := 0
	for _, t := range tasks {
		if t.IsOpenIssue() {
			openIssues++
		}
	}

	performance := 100 - openIssues*10
	if daysSinceContact > StaleContactDays {
		performance -= 20
	}
	engagement := meetingsThisMonth*20 + recentCount*5
	commercial := completedActivities*10 - daysSinceContact*2

	performance = clampScore(performance)
	engagement = clampScore(engagement)
	commercial = clampScore(commercial)

	overall := int(math.Round(
		float64(performance)*WeightPerformance +
			float64(engagement)*WeightEngagement +
			float64(commercial)*WeightCommercial,
	))

	return Calculation{
		PartnerID:         partnerID,
		PerformanceScore:  performance,
		EngagementScore:   engagement,
		CommercialScore:   commercial,
		OverallScore:      overall,
		HealthStatus:      StatusFor(overall),
		LastActivityAt:    lastActivityAt,
		DaysSinceContact:  daysSinceContact,
		MeetingsThisMonth: meetingsThisMonth,
		OpenIssuesCount:   openIssues,
	}
}

// StatusFor 整体分到状态档位的映射
func StatusFor(overall int) HealthStatus {
	switch {
	case overall >= 80:
		return HealthExcellent
	case overall >= 60:
		return HealthGood
	case overall >= 40:
		return HealthWarning
	default:
		return HealthCritical
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// PartnerHealthMetrics 伙伴健康指标实体
// 每个伙伴至多一条存活记录，每次评分覆盖上一次
type PartnerHealthMetrics struct {
	gorm.Model
	PartnerID            string       `gorm:"column:partner_id;type:varchar(64);uniqueIndex;not null" json:"partner_id"`
	UserID               string       `gorm:"column:user_id;type:varchar(64);index;not null" json:"user_id"`
	OverallScore         int          `gorm:"column:overall_score;not null" json:"overall_score"`
	PerformanceScore     int          `gorm:"column:performance_score;not null" json:"performance_score"`
	EngagementScore      int          `gorm:"column:engagement_score;not null" json:"engagement_score"`
	CommercialScore      int          `gorm:"column:commercial_score;not null" json:"commercial_score"`
	HealthStatus         HealthStatus `gorm:"column:health_status;type:varchar(20);not null" json:"health_status"`
	DaysSinceLastContact int          `gorm:"column:days_since_last_contact;not null" json:"days_since_last_contact"`
	MeetingsThisMonth    int          `gorm:"column:meetings_this_month;not null" json:"meetings_this_month"`
	OpenIssuesCount      int          `gorm:"column:open_issues_count;not null" json:"open_issues_count"`
	LastActivityAt       *time.Time   `gorm:"column:last_activity_at" json:"last_activity_at"`
	CalculatedAt         time.Time    `gorm:"column:calculated_at;not null" json:"calculated_at"`
}

func (PartnerHealthMetrics) TableName() string { return "partner_health_metrics" }

// PartnerAlert 伙伴告警实体（只追加，不去重）
type PartnerAlert struct {
	gorm.Model
	AlertID   string `gorm:"column:alert_id;type:varchar(64);uniqueIndex;not null" json:"alert_id"`
	PartnerID string `gorm:"column:partner_id;type:varchar(64);index;not null" json:"partner_id"`
	UserID    string `gorm:"column:user_id;type:varchar(64);index;not null" json:"user_id"`
	AlertType string `gorm:"column:alert_type;type:varchar(50);not null" json:"alert_type"`
	Severity  string `gorm:"column:severity;type:varchar(20);not null" json:"severity"`
	Title     string `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Message   string `gorm:"column:message;type:text;not null" json:"message"`
	Metadata  string `gorm:"column:metadata;type:text" json:"metadata"`
	Resolved  bool   `gorm:"column:resolved;default:false" json:"resolved"`
}

func (PartnerAlert) TableName() string { return "partner_alerts" }

// HealthMetricsRepository 健康指标仓储接口
type HealthMetricsRepository interface {
	// Upsert 以 partner_id 为冲突键覆盖写入
	Upsert(ctx context.Context, metrics *PartnerHealthMetrics) error
	ListByUser(ctx context.Context, userID string) ([]*PartnerHealthMetrics, error)
}

// AlertRepository 告警仓储接口
type AlertRepository interface {
	Insert(ctx context.Context, alert *PartnerAlert) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*PartnerAlert, error)
	CountUnresolved(ctx context.Context, userID string) (int64, error)
	Resolve(ctx context.Context, userID, alertID string) error
}
