// Package application 仪表盘汇总应用服务
package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	healthdomain "github.com/wyfcoding/prm/internal/health/domain"
	partnerdomain "github.com/wyfcoding/prm/internal/partner/domain"
)

const (
	summaryCacheKeyPrefix = "prm:dashboard:summary:"
	summaryCacheTTL       = 60 * time.Second
	topPartnerLimit       = 5
)

// PartnerStore 伙伴读取接口
type PartnerStore interface {
	ListByUser(ctx context.Context, userID string) ([]*partnerdomain.Partner, error)
}

// HealthStore 健康指标读取接口
type HealthStore interface {
	ListByUser(ctx context.Context, userID string) ([]*healthdomain.PartnerHealthMetrics, error)
}

// AlertStore 告警统计接口
type AlertStore interface {
	CountUnresolved(ctx context.Context, userID string) (int64, error)
}

// TopPartner 仪表盘重点伙伴条目
type TopPartner struct {
	PartnerID    string `json:"partner_id"`
	Name         string `json:"name"`
	PriorityRank int    `json:"priority_rank"`
	ParetoFocus  string `json:"pareto_focus"`
	OverallScore int    `json:"overall_score"`
	HealthStatus string `json:"health_status"`
}

// Summary 仪表盘汇总
type Summary struct {
	TotalPartners      int            `json:"total_partners"`
	PartnersByCategory map[string]int `json:"partners_by_category"`
	PartnersByStatus   map[string]int `json:"partners_by_status"`
	HealthDistribution map[string]int `json:"health_distribution"`
	AverageHealthScore float64        `json:"average_health_score"`
	UnresolvedAlerts   int64          `json:"unresolved_alerts"`
	TopPartners        []TopPartner   `json:"top_partners"`
	GeneratedAt        time.Time      `json:"generated_at"`
}

// DashboardService 仪表盘汇总服务
// 汇总结果按用户短缓存，告警事件到达时提前失效
type DashboardService struct {
	partners PartnerStore
	health   HealthStore
	alerts   AlertStore
	cache    redis.UniversalClient
	logger   *slog.Logger
	now      func() time.Time
}

func NewDashboardService(
	partners PartnerStore,
	health HealthStore,
	alerts AlertStore,
	cache redis.UniversalClient,
	logger *slog.Logger,
) *DashboardService {
	return &DashboardService{
		partners: partners,
		health:   health,
		alerts:   alerts,
		cache:    cache,
		logger:   logger.With("module", "dashboard_service"),
		now:      time.Now,
	}
}

// GetSummary 取用户的仪表盘汇总，命中缓存直接返回
func (s *DashboardService) GetSummary(ctx context.Context, userID string) (*Summary, error) {
	key := summaryCacheKeyPrefix + userID
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			var summary Summary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				return &summary, nil
			}
		}
	}

	summary, err := s.buildSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, key, data, summaryCacheTTL).Err(); err != nil {
				s.logger.WarnContext(ctx, "failed to cache dashboard summary", "user_id", userID, "error", err)
			}
		}
	}
	return summary, nil
}

// InvalidateSummary 删除用户的汇总缓存
func (s *DashboardService) InvalidateSummary(ctx context.Context, userID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, summaryCacheKeyPrefix+userID).Err()
}

func (s *DashboardService) buildSummary(ctx context.Context, userID string) (*Summary, error) {
	partners, err := s.partners.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	metrics, err := s.health.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list health metrics: %w", err)
	}
	unresolved, err := s.alerts.CountUnresolved(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count unresolved alerts: %w", err)
	}

	summary := &Summary{
		TotalPartners:      len(partners),
		PartnersByCategory: map[string]int{},
		PartnersByStatus:   map[string]int{},
		HealthDistribution: map[string]int{},
		UnresolvedAlerts:   unresolved,
		GeneratedAt:        s.now(),
	}

	metricsByPartner := make(map[string]*healthdomain.PartnerHealthMetrics, len(metrics))
	scoreSum := 0
	for _, m := range metrics {
		metricsByPartner[m.PartnerID] = m
		summary.HealthDistribution[string(m.HealthStatus)]++
		scoreSum += m.OverallScore
	}
	if len(metrics) > 0 {
		summary.AverageHealthScore = float64(scoreSum) / float64(len(metrics))
	}

	var important []*partnerdomain.Partner
	for _, p := range partners {
		for _, category := range p.CategoryList() {
			summary.PartnersByCategory[string(category)]++
		}
		summary.PartnersByStatus[string(p.Status)]++
		if p.IsImportant && p.PriorityRank != nil {
			important = append(important, p)
		}
	}

	sort.SliceStable(important, func(i, j int) bool {
		return *important[i].PriorityRank < *important[j].PriorityRank
	})
	if len(important) > topPartnerLimit {
		important = important[:topPartnerLimit]
	}
	for _, p := range important {
		top := TopPartner{
			PartnerID:    p.PartnerID,
			Name:         p.Name,
			PriorityRank: *p.PriorityRank,
			ParetoFocus:  string(p.ParetoFocus),
		}
		if m, ok := metricsByPartner[p.PartnerID]; ok {
			top.OverallScore = m.OverallScore
			top.HealthStatus = string(m.HealthStatus)
		}
		summary.TopPartners = append(summary.TopPartners, top)
	}

	return summary, nil
}
