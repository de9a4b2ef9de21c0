package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	partnerdomain "github.com/wyfcoding/prm/internal/partner/domain"
)

func metric(partnerID string, year, month int, gmv, rebate float64) *PartnerMonthlyMetric {
	return &PartnerMonthlyMetric{
		PartnerID:    partnerID,
		Year:         year,
		Month:        month,
		GMVAmount:    decimal.NewFromFloat(gmv),
		RebateAmount: decimal.NewFromFloat(rebate),
	}
}

func gmvAggregate(partnerID string, gmv float64) PartnerAggregate {
	return PartnerAggregate{
		PartnerID:   partnerID,
		TotalGMV:    decimal.NewFromFloat(gmv),
		MonthsCount: 1,
	}
}

func resultByPartner(results []RankResult) map[string]RankResult {
	out := make(map[string]RankResult, len(results))
	for _, r := range results {
		out[r.PartnerID] = r
	}
	return out
}

func TestAggregateRecentKeepsLatestThreeMonths(t *testing.T) {
	rows := []*PartnerMonthlyMetric{
		metric("PRT1", 2025, 11, 100, 10),
		metric("PRT1", 2026, 2, 300, 30),
		metric("PRT1", 2025, 12, 200, 20),
		metric("PRT1", 2026, 1, 400, 40),
	}

	agg := AggregateRecent("PRT1", rows)

	if agg.MonthsCount != 3 {
		t.Fatalf("months = %d, want 3", agg.MonthsCount)
	}
	// 2026-02 + 2026-01 + 2025-12，2025-11 被窗口裁掉
	if !agg.TotalGMV.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("total gmv = %s, want 900", agg.TotalGMV)
	}
	if !agg.TotalRebate.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("total rebate = %s, want 90", agg.TotalRebate)
	}
}

func TestAggregateRecentNoRows(t *testing.T) {
	agg := AggregateRecent("PRT1", nil)
	if agg.MonthsCount != 0 || !agg.TotalGMV.IsZero() || !agg.TotalRebate.IsZero() {
		t.Fatalf("empty aggregate expected, got %+v", agg)
	}
}

func TestRankGroupParetoCutoff(t *testing.T) {
	// 90/10 分布：第一个伙伴累计即达 80%，只有它是重点
	aggs := []PartnerAggregate{
		gmvAggregate("PRT1", 900),
		gmvAggregate("PRT2", 100),
	}

	byID := resultByPartner(RankGroup(aggs, partnerdomain.FocusGMV))

	if !byID["PRT1"].Important {
		t.Fatalf("PRT1 should be important")
	}
	if byID["PRT2"].Important {
		t.Fatalf("PRT2 should not be important after 90%% cumulative")
	}
	if byID["PRT1"].Rank == nil || *byID["PRT1"].Rank != 1 {
		t.Fatalf("PRT1 rank = %v, want 1", byID["PRT1"].Rank)
	}
}

func TestRankGroupHardCapFive(t *testing.T) {
	// 10 个等量伙伴：累计到第 5 个才 50%，数量上限先生效
	var aggs []PartnerAggregate
	for _, id := range []string{"PRT1", "PRT2", "PRT3", "PRT4", "PRT5", "PRT6", "PRT7", "PRT8", "PRT9", "PRT10"} {
		aggs = append(aggs, gmvAggregate(id, 100))
	}

	results := RankGroup(aggs, partnerdomain.FocusGMV)

	important := 0
	for _, r := range results {
		if r.Important {
			important++
		}
	}
	if important != ParetoMaxImportant {
		t.Fatalf("important = %d, want %d", important, ParetoMaxImportant)
	}
}

func TestRankGroupRankClustersSmallContributors(t *testing.T) {
	// 长尾伙伴贡献不足总量 1%，名次不前进
	aggs := []PartnerAggregate{
		gmvAggregate("PRT1", 9000),
		gmvAggregate("PRT2", 900),
		gmvAggregate("PRT3", 50),
		gmvAggregate("PRT4", 50),
	}

	byID := resultByPartner(RankGroup(aggs, partnerdomain.FocusGMV))

	if *byID["PRT1"].Rank != 1 || *byID["PRT2"].Rank != 2 {
		t.Fatalf("head ranks = %d/%d, want 1/2", *byID["PRT1"].Rank, *byID["PRT2"].Rank)
	}
	// 50 < 10000*1% = 100，沿用名次 2
	if *byID["PRT3"].Rank != 2 || *byID["PRT4"].Rank != 2 {
		t.Fatalf("tail ranks = %d/%d, want 2/2", *byID["PRT3"].Rank, *byID["PRT4"].Rank)
	}
}

func TestRankGroupRankNonDecreasing(t *testing.T) {
	aggs := []PartnerAggregate{
		gmvAggregate("PRT1", 500),
		gmvAggregate("PRT2", 300),
		gmvAggregate("PRT3", 150),
		gmvAggregate("PRT4", 40),
		gmvAggregate("PRT5", 10),
	}

	results := RankGroup(aggs, partnerdomain.FocusGMV)

	prev := 0
	for _, r := range results {
		if r.Rank == nil {
			t.Fatalf("unexpected nil rank for %s", r.PartnerID)
		}
		if *r.Rank < prev {
			t.Fatalf("rank decreased: %d after %d", *r.Rank, prev)
		}
		prev = *r.Rank
	}
}

func TestRankGroupZeroMonthsPartner(t *testing.T) {
	aggs := []PartnerAggregate{
		gmvAggregate("PRT1", 100),
		{PartnerID: "PRT2"},
	}

	byID := resultByPartner(RankGroup(aggs, partnerdomain.FocusGMV))

	if byID["PRT2"].Rank != nil || byID["PRT2"].Important {
		t.Fatalf("zero-months partner must get nil rank and not be important: %+v", byID["PRT2"])
	}
	if byID["PRT1"].Rank == nil {
		t.Fatalf("ranked partner lost its rank")
	}
}

func TestRankGroupRebateFocus(t *testing.T) {
	aggs := []PartnerAggregate{
		{PartnerID: "PRT1", TotalGMV: decimal.NewFromInt(100), TotalRebate: decimal.NewFromInt(10), MonthsCount: 1},
		{PartnerID: "PRT2", TotalGMV: decimal.NewFromInt(50), TotalRebate: decimal.NewFromInt(90), MonthsCount: 1},
	}

	byID := resultByPartner(RankGroup(aggs, partnerdomain.FocusRebate))

	// 返佣口径下 PRT2 排第一
	if *byID["PRT2"].Rank != 1 {
		t.Fatalf("PRT2 rank = %d, want 1 under rebate focus", *byID["PRT2"].Rank)
	}
	if !byID["PRT2"].Important || byID["PRT1"].Important {
		t.Fatalf("rebate focus importance wrong: %+v / %+v", byID["PRT2"], byID["PRT1"])
	}
}
