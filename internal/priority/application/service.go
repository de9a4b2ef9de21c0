// Package application 伙伴优先级排名应用服务
package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/prm/internal/priority/domain"

	partnerdomain "github.com/wyfcoding/prm/internal/partner/domain"
)

// PartnerStore 伙伴读写接口（由 partner 模块仓储实现）
type PartnerStore interface {
	ListByUser(ctx context.Context, userID string) ([]*partnerdomain.Partner, error)
	UpdatePriority(ctx context.Context, partnerID string, important bool, rank *int, focus partnerdomain.ParetoFocus) error
}

// PriorityService 优先级排名应用服务
type PriorityService struct {
	partners PartnerStore
	metrics  domain.MonthlyMetricRepository
	logger   *slog.Logger
}

func NewPriorityService(partners PartnerStore, metrics domain.MonthlyMetricRepository, logger *slog.Logger) *PriorityService {
	return &PriorityService{
		partners: partners,
		metrics:  metrics,
		logger:   logger.With("module", "priority_service"),
	}
}

// Recalculate 对用户全部伙伴重算重点标记与名次
// focusOverride 为空时默认按 GMV 口径；
// 已显式设定口径的伙伴始终按自己的口径参与分组
func (s *PriorityService) Recalculate(ctx context.Context, userID string, focusOverride partnerdomain.ParetoFocus) error {
	defaultFocus := focusOverride
	if defaultFocus != partnerdomain.FocusGMV && defaultFocus != partnerdomain.FocusRebate {
		defaultFocus = partnerdomain.FocusGMV
	}

	partners, err := s.partners.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list partners: %w", err)
	}
	rows, err := s.metrics.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list monthly metrics: %w", err)
	}

	rowsByPartner := make(map[string][]*domain.PartnerMonthlyMetric, len(partners))
	for _, row := range rows {
		rowsByPartner[row.PartnerID] = append(rowsByPartner[row.PartnerID], row)
	}

	// 按各自口径分成两组，组内独立排名
	groups := map[partnerdomain.ParetoFocus][]domain.PartnerAggregate{}
	focusByPartner := make(map[string]partnerdomain.ParetoFocus, len(partners))
	for _, p := range partners {
		focus := p.ParetoFocus
		if focus != partnerdomain.FocusGMV && focus != partnerdomain.FocusRebate {
			focus = defaultFocus
		}
		focusByPartner[p.PartnerID] = focus
		groups[focus] = append(groups[focus], domain.AggregateRecent(p.PartnerID, rowsByPartner[p.PartnerID]))
	}

	for focus, aggregates := range groups {
		for _, result := range domain.RankGroup(aggregates, focus) {
			if err := s.partners.UpdatePriority(ctx, result.PartnerID, result.Important, result.Rank, focusByPartner[result.PartnerID]); err != nil {
				return fmt.Errorf("update priority for %s: %w", result.PartnerID, err)
			}
		}
	}

	s.logger.InfoContext(ctx, "priority recalculated",
		"user_id", userID,
		"partners", len(partners),
		"default_focus", string(defaultFocus),
	)
	return nil
}

// RecalculateForPartner 单伙伴入口
// 名次相对于整个集合，任何单点变化都要重算全量
func (s *PriorityService) RecalculateForPartner(ctx context.Context, userID, partnerID string, focusOverride partnerdomain.ParetoFocus) error {
	return s.Recalculate(ctx, userID, focusOverride)
}

// MonthlyMetricInput 单条月度指标导入内容
type MonthlyMetricInput struct {
	PartnerID    string          `json:"partner_id"`
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	GMVAmount    decimal.Decimal `json:"gmv_amount"`
	RebateAmount decimal.Decimal `json:"rebate_amount"`
	GMVShare     decimal.Decimal `json:"gmv_share"`
	RebateShare  decimal.Decimal `json:"rebate_share"`
	StoreCount   int             `json:"store_count"`
	OrderCount   int             `json:"order_count"`
	ApprovalRate decimal.Decimal `json:"approval_rate"`
}

// ImportMonthlyMetrics 批量导入月度指标并随后重算排名
func (s *PriorityService) ImportMonthlyMetrics(ctx context.Context, userID string, inputs []MonthlyMetricInput, focusOverride partnerdomain.ParetoFocus) error {
	for _, in := range inputs {
		metric := &domain.PartnerMonthlyMetric{
			PartnerID:    in.PartnerID,
			UserID:       userID,
			Year:         in.Year,
			Month:        in.Month,
			GMVAmount:    in.GMVAmount,
			RebateAmount: in.RebateAmount,
			GMVShare:     in.GMVShare,
			RebateShare:  in.RebateShare,
			StoreCount:   in.StoreCount,
			OrderCount:   in.OrderCount,
			ApprovalRate: in.ApprovalRate,
		}
		if err := s.metrics.Upsert(ctx, metric); err != nil {
			return fmt.Errorf("upsert monthly metric %s %d-%02d: %w", in.PartnerID, in.Year, in.Month, err)
		}
	}
	return s.Recalculate(ctx, userID, focusOverride)
}

// ListMonthlyMetrics 查询用户全部月度指标
func (s *PriorityService) ListMonthlyMetrics(ctx context.Context, userID string) ([]*domain.PartnerMonthlyMetric, error) {
	return s.metrics.ListByUser(ctx, userID)
}
