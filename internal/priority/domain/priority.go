// Package domain 伙伴优先级（帕累托）排名领域模型
package domain

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	partnerdomain "github.com/wyfcoding/prm/internal/partner/domain"
	"gorm.io/gorm"
)

const (
	// AggregationWindowMonths 聚合只看最近的月度记录条数
	AggregationWindowMonths = 3

	// ParetoMaxImportant 重点伙伴数量硬上限
	ParetoMaxImportant = 5
)

var (
	// rankStepThreshold 贡献超过组总量 1% 才推进名次
	rankStepThreshold = decimal.NewFromFloat(0.01)

	// importanceCutoff 累计贡献达到 80% 后停止圈选
	importanceCutoff = decimal.NewFromFloat(0.80)
)

// PartnerMonthlyMetric 伙伴月度经营指标实体
// (partner_id, year, month) 唯一，重复导入覆盖
type PartnerMonthlyMetric struct {
	gorm.Model
	PartnerID    string          `gorm:"column:partner_id;type:varchar(64);uniqueIndex:uk_partner_month;not null" json:"partner_id"`
	UserID       string          `gorm:"column:user_id;type:varchar(64);index;not null" json:"user_id"`
	Year         int             `gorm:"column:year;uniqueIndex:uk_partner_month;not null" json:"year"`
	Month        int             `gorm:"column:month;uniqueIndex:uk_partner_month;not null" json:"month"`
	GMVAmount    decimal.Decimal `gorm:"column:gmv_amount;type:decimal(20,4);not null" json:"gmv_amount"`
	RebateAmount decimal.Decimal `gorm:"column:rebate_amount;type:decimal(20,4);not null" json:"rebate_amount"`
	GMVShare     decimal.Decimal `gorm:"column:gmv_share;type:decimal(10,4)" json:"gmv_share"`
	RebateShare  decimal.Decimal `gorm:"column:rebate_share;type:decimal(10,4)" json:"rebate_share"`
	StoreCount   int             `gorm:"column:store_count" json:"store_count"`
	OrderCount   int             `gorm:"column:order_count" json:"order_count"`
	ApprovalRate decimal.Decimal `gorm:"column:approval_rate;type:decimal(10,4)" json:"approval_rate"`
}

func (PartnerMonthlyMetric) TableName() string { return "partner_monthly_metrics" }

// PartnerAggregate 单个伙伴在聚合窗口内的汇总
type PartnerAggregate struct {
	PartnerID      string
	TotalGMV       decimal.Decimal
	TotalRebate    decimal.Decimal
	AvgGMVShare    decimal.Decimal
	AvgRebateShare decimal.Decimal
	MonthsCount    int
}

// AggregateRecent 取最近至多 AggregationWindowMonths 条月度记录做汇总
// 无记录时返回全零聚合且 MonthsCount = 0
func AggregateRecent(partnerID string, rows []*PartnerMonthlyMetric) PartnerAggregate {
	sorted := make([]*PartnerMonthlyMetric, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year > sorted[j].Year
		}
		return sorted[i].Month > sorted[j].Month
	})
	if len(sorted) > AggregationWindowMonths {
		sorted = sorted[:AggregationWindowMonths]
	}

	agg := PartnerAggregate{PartnerID: partnerID, MonthsCount: len(sorted)}
	for _, row := range sorted {
		agg.TotalGMV = agg.TotalGMV.Add(row.GMVAmount)
		agg.TotalRebate = agg.TotalRebate.Add(row.RebateAmount)
		agg.AvgGMVShare = agg.AvgGMVShare.Add(row.GMVShare)
		agg.AvgRebateShare = agg.AvgRebateShare.Add(row.RebateShare)
	}
	if agg.MonthsCount > 0 {
		months := decimal.NewFromInt(int64(agg.MonthsCount))
		agg.AvgGMVShare = agg.AvgGMVShare.Div(months)
		agg.AvgRebateShare = agg.AvgRebateShare.Div(months)
	}
	return agg
}

func (a PartnerAggregate) focusValue(focus partnerdomain.ParetoFocus) decimal.Decimal {
	if focus == partnerdomain.FocusRebate {
		return a.TotalRebate
	}
	return a.TotalGMV
}

// RankResult 单个伙伴的排名回写内容
type RankResult struct {
	PartnerID string
	Important bool
	Rank      *int
}

// RankGroup 在同一焦点组内计算名次与重点标记
// 名次规则：按焦点值降序排列，名次从 1 起，
// 仅当下一个伙伴自身贡献超过组总量 1% 时名次才前进，
// 贡献不足 1% 的伙伴沿用上一名次，把长尾聚在同一档；
// 重点规则：按同一顺序累加贡献占比，每加入一个伙伴后检查，
// 累计达到 80% 或已加入 5 个即停止；
// 无月度记录的伙伴不参与排序，名次置空且不标记重点
func RankGroup(aggregates []PartnerAggregate, focus partnerdomain.ParetoFocus) []RankResult {
	ranked := make([]PartnerAggregate, 0, len(aggregates))
	var skipped []PartnerAggregate
	for _, agg := range aggregates {
		if agg.MonthsCount > 0 {
			ranked = append(ranked, agg)
		} else {
			skipped = append(skipped, agg)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].focusValue(focus).GreaterThan(ranked[j].focusValue(focus))
	})

	total := decimal.Zero
	for _, agg := range ranked {
		total = total.Add(agg.focusValue(focus))
	}
	rankStep := total.Mul(rankStepThreshold)
	cutoff := total.Mul(importanceCutoff)

	results := make([]RankResult, 0, len(aggregates))
	cumulative := decimal.Zero
	importantCount := 0
	importanceClosed := false
	rank := 1
	for i, agg := range ranked {
		value := agg.focusValue(focus)
		if i > 0 && value.GreaterThan(rankStep) {
			rank++
		}

		important := false
		if !importanceClosed {
			important = true
			importantCount++
			cumulative = cumulative.Add(value)
			// 组总量为零时占比无意义，只受数量上限约束
			if (!total.IsZero() && cumulative.GreaterThanOrEqual(cutoff)) || importantCount >= ParetoMaxImportant {
				importanceClosed = true
			}
		}

		r := rank
		results = append(results, RankResult{PartnerID: agg.PartnerID, Important: important, Rank: &r})
	}

	for _, agg := range skipped {
		results = append(results, RankResult{PartnerID: agg.PartnerID})
	}
	return results
}

// MonthlyMetricRepository 月度指标仓储接口
type MonthlyMetricRepository interface {
	// Upsert 以 (partner_id, year, month) 为冲突键覆盖写入
	Upsert(ctx context.Context, metric *PartnerMonthlyMetric) error
	ListByUser(ctx context.Context, userID string) ([]*PartnerMonthlyMetric, error)
}
