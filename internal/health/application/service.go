// Package application 健康评分批处理服务
package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/wyfcoding/pkg/idgen"
	"github.com/wyfcoding/prm/internal/health/domain"
	partnerdomain "github.com/wyfcoding/prm/internal/partner/domain"
)

// PartnerStore 伙伴读取接口（由 partner 模块仓储实现）
type PartnerStore interface {
	ListByUser(ctx context.Context, userID string) ([]*partnerdomain.Partner, error)
}

// ActivityStore 活动批量读取接口
type ActivityStore interface {
	ListByPartnerIDs(ctx context.Context, userID string, partnerIDs []string) ([]*partnerdomain.PartnerActivity, error)
}

// TaskStore 任务批量读取接口
type TaskStore interface {
	ListByPartnerIDs(ctx context.Context, userID string, partnerIDs []string) ([]*partnerdomain.PartnerTask, error)
}

// ScanSummary 一次批量评分的汇总结果
type ScanSummary struct {
	Success            bool                 `json:"success"`
	PartnersProcessed  int                  `json:"partners_processed"`
	AlertsGenerated    int                  `json:"alerts_generated"`
	HealthCalculations []domain.Calculation `json:"health_calculations"`
}

// HealthScanService 健康评分批处理服务
// 先两次批量读出全部活动与任务，再在内存中按伙伴分组计算，
// 避免按伙伴逐个往返存储层
type HealthScanService struct {
	partners   PartnerStore
	activities ActivityStore
	tasks      TaskStore
	metrics    domain.HealthMetricsRepository
	alerts     domain.AlertRepository
	publisher  domain.EventPublisher
	logger     *slog.Logger
	now        func() time.Time
}

func NewHealthScanService(
	partners PartnerStore,
	activities ActivityStore,
	tasks TaskStore,
	metrics domain.HealthMetricsRepository,
	alerts domain.AlertRepository,
	publisher domain.EventPublisher,
	logger *slog.Logger,
) *HealthScanService {
	return &HealthScanService{
		partners:   partners,
		activities: activities,
		tasks:      tasks,
		metrics:    metrics,
		alerts:     alerts,
		publisher:  publisher,
		logger:     logger.With("module", "health_scan_service"),
		now:        time.Now,
	}
}

// Run 对用户的全部伙伴执行一次评分
// 任何读写失败都会中止整个批次并原样上抛；
// 失败前已提交的写入不回滚（批次不包事务）
func (s *HealthScanService) Run(ctx context.Context, userID string) (*ScanSummary, error) {
	partners, err := s.partners.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}

	partnerIDs := make([]string, 0, len(partners))
	for _, p := range partners {
		partnerIDs = append(partnerIDs, p.PartnerID)
	}

	activities, err := s.activities.ListByPartnerIDs(ctx, userID, partnerIDs)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	tasks, err := s.tasks.ListByPartnerIDs(ctx, userID, partnerIDs)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	activityByPartner := make(map[string][]*partnerdomain.PartnerActivity, len(partners))
	for _, a := range activities {
		activityByPartner[a.PartnerID] = append(activityByPartner[a.PartnerID], a)
	}
	taskByPartner := make(map[string][]*partnerdomain.PartnerTask, len(partners))
	for _, t := range tasks {
		taskByPartner[t.PartnerID] = append(taskByPartner[t.PartnerID], t)
	}

	now := s.now()
	summary := &ScanSummary{Success: true, HealthCalculations: make([]domain.Calculation, 0, len(partners))}

	for _, p := range partners {
		calc := domain.Calculate(p.PartnerID, activityByPartner[p.PartnerID], taskByPartner[p.PartnerID], now)

		metrics := &domain.PartnerHealthMetrics{
			PartnerID:            calc.PartnerID,
			UserID:               userID,
			OverallScore:         calc.OverallScore,
			PerformanceScore:     calc.PerformanceScore,
			EngagementScore:      calc.EngagementScore,
			CommercialScore:      calc.CommercialScore,
			HealthStatus:         calc.HealthStatus,
			DaysSinceLastContact: calc.DaysSinceContact,
			MeetingsThisMonth:    calc.MeetingsThisMonth,
			OpenIssuesCount:      calc.OpenIssuesCount,
			LastActivityAt:       calc.LastActivityAt,
			CalculatedAt:         now,
		}
		if err := s.metrics.Upsert(ctx, metrics); err != nil {
			return nil, fmt.Errorf("upsert health metrics for %s: %w", p.PartnerID, err)
		}

		for _, draft := range domain.EvaluateAlerts(calc) {
			alert := &domain.PartnerAlert{
				AlertID:   fmt.Sprintf("ALT%s", idgen.GenIDString()),
				PartnerID: p.PartnerID,
				UserID:    userID,
				AlertType: draft.AlertType,
				Severity:  draft.Severity,
				Title:     draft.Title,
				Message:   draft.Message,
				Metadata:  alertMetadata(calc),
			}
			if err := s.alerts.Insert(ctx, alert); err != nil {
				return nil, fmt.Errorf("insert alert for %s: %w", p.PartnerID, err)
			}
			summary.AlertsGenerated++

			if s.publisher != nil {
				event := domain.PartnerAlertRaisedEvent{
					AlertID:   alert.AlertID,
					PartnerID: alert.PartnerID,
					UserID:    userID,
					AlertType: alert.AlertType,
					Severity:  alert.Severity,
					Timestamp: now,
				}
				if err := s.publisher.Publish(ctx, domain.PartnerAlertRaisedEventType, userID, event); err != nil {
					s.logger.WarnContext(ctx, "failed to publish alert event", "alert_id", alert.AlertID, "error", err)
				}
			}
		}

		summary.HealthCalculations = append(summary.HealthCalculations, calc)
		summary.PartnersProcessed++
	}

	if s.publisher != nil {
		event := domain.HealthScanCompletedEvent{
			UserID:            userID,
			PartnersProcessed: summary.PartnersProcessed,
			AlertsGenerated:   summary.AlertsGenerated,
			Timestamp:         now,
		}
		if err := s.publisher.Publish(ctx, domain.HealthScanCompletedEventType, userID, event); err != nil {
			s.logger.WarnContext(ctx, "failed to publish scan completed event", "user_id", userID, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "health scan finished",
		"user_id", userID,
		"partners", summary.PartnersProcessed,
		"alerts", summary.AlertsGenerated,
	)
	return summary, nil
}

// ListAlerts 查询用户告警
func (s *HealthScanService) ListAlerts(ctx context.Context, userID string, limit int) ([]*domain.PartnerAlert, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.alerts.ListByUser(ctx, userID, limit)
}

// ResolveAlert 标记告警已处理
func (s *HealthScanService) ResolveAlert(ctx context.Context, userID, alertID string) error {
	return s.alerts.Resolve(ctx, userID, alertID)
}

// ListMetrics 查询用户全部伙伴的健康指标
func (s *HealthScanService) ListMetrics(ctx context.Context, userID string) ([]*domain.PartnerHealthMetrics, error) {
	return s.metrics.ListByUser(ctx, userID)
}

func alertMetadata(calc domain.Calculation) string {
	data, err := json.Marshal(map[string]any{
		"overall_score":           calc.OverallScore,
		"days_since_last_contact": calc.DaysSinceContact,
		"open_issues_count":       calc.OpenIssuesCount,
	})
	if err != nil {
		return ""
	}
	return string(data)
}
