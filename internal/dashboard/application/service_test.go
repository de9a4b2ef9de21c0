package application

import (
	"context"
	"log/slog"
	"testing"

	healthdomain "github.com/wyfcoding/prm/internal/health/domain"
	partnerdomain "github.com/wyfcoding/prm/internal/partner/domain"
)

type fakePartnerStore struct {
	partners []*partnerdomain.Partner
}

func (f *fakePartnerStore) ListByUser(ctx context.Context, userID string) ([]*partnerdomain.Partner, error) {
	return f.partners, nil
}

type fakeHealthStore struct {
	metrics []*healthdomain.PartnerHealthMetrics
}

func (f *fakeHealthStore) ListByUser(ctx context.Context, userID string) ([]*healthdomain.PartnerHealthMetrics, error) {
	return f.metrics, nil
}

type fakeAlertStore struct {
	unresolved int64
}

func (f *fakeAlertStore) CountUnresolved(ctx context.Context, userID string) (int64, error) {
	return f.unresolved, nil
}

func rankedPartner(id string, rank int, categories string) *partnerdomain.Partner {
	r := rank
	return &partnerdomain.Partner{
		PartnerID:    id,
		UserID:       "USR1",
		Name:         id,
		Categories:   categories,
		Status:       partnerdomain.PartnerStatusActive,
		IsImportant:  true,
		PriorityRank: &r,
		ParetoFocus:  partnerdomain.FocusGMV,
	}
}

func healthRow(partnerID string, score int, status healthdomain.HealthStatus) *healthdomain.PartnerHealthMetrics {
	return &healthdomain.PartnerHealthMetrics{PartnerID: partnerID, UserID: "USR1", OverallScore: score, HealthStatus: status}
}

func TestGetSummaryCounts(t *testing.T) {
	partners := &fakePartnerStore{partners: []*partnerdomain.Partner{
		rankedPartner("PRT1", 1, "logistic,payment"),
		rankedPartner("PRT2", 2, "payment"),
		{PartnerID: "PRT3", UserID: "USR1", Name: "PRT3", Categories: "marketplace", Status: partnerdomain.PartnerStatusInactive},
	}}
	health := &fakeHealthStore{metrics: []*healthdomain.PartnerHealthMetrics{
		healthRow("PRT1", 90, healthdomain.HealthExcellent),
		healthRow("PRT2", 50, healthdomain.HealthWarning),
		healthRow("PRT3", 10, healthdomain.HealthCritical),
	}}
	alerts := &fakeAlertStore{unresolved: 4}

	svc := NewDashboardService(partners, health, alerts, nil, slog.Default())
	summary, err := svc.GetSummary(context.Background(), "USR1")
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}

	if summary.TotalPartners != 3 {
		t.Fatalf("total = %d, want 3", summary.TotalPartners)
	}
	if summary.PartnersByCategory["payment"] != 2 || summary.PartnersByCategory["logistic"] != 1 {
		t.Fatalf("category counts wrong: %v", summary.PartnersByCategory)
	}
	if summary.PartnersByStatus[string(partnerdomain.PartnerStatusActive)] != 2 {
		t.Fatalf("status counts wrong: %v", summary.PartnersByStatus)
	}
	if summary.HealthDistribution["critical"] != 1 || summary.HealthDistribution["excellent"] != 1 {
		t.Fatalf("health distribution wrong: %v", summary.HealthDistribution)
	}
	if summary.UnresolvedAlerts != 4 {
		t.Fatalf("unresolved = %d, want 4", summary.UnresolvedAlerts)
	}
	if summary.AverageHealthScore != 50 {
		t.Fatalf("avg = %v, want 50", summary.AverageHealthScore)
	}
}

func TestGetSummaryTopPartnersOrderedByRank(t *testing.T) {
	partners := &fakePartnerStore{partners: []*partnerdomain.Partner{
		rankedPartner("PRT3", 3, "payment"),
		rankedPartner("PRT1", 1, "payment"),
		rankedPartner("PRT2", 2, "payment"),
	}}
	health := &fakeHealthStore{metrics: []*healthdomain.PartnerHealthMetrics{
		healthRow("PRT1", 88, healthdomain.HealthExcellent),
	}}

	svc := NewDashboardService(partners, health, &fakeAlertStore{}, nil, slog.Default())
	summary, err := svc.GetSummary(context.Background(), "USR1")
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}

	if len(summary.TopPartners) != 3 {
		t.Fatalf("top partners = %d, want 3", len(summary.TopPartners))
	}
	for i, want := range []string{"PRT1", "PRT2", "PRT3"} {
		if summary.TopPartners[i].PartnerID != want {
			t.Fatalf("top[%d] = %s, want %s", i, summary.TopPartners[i].PartnerID, want)
		}
	}
	if summary.TopPartners[0].OverallScore != 88 {
		t.Fatalf("top partner score = %d, want joined from health metrics", summary.TopPartners[0].OverallScore)
	}
}

func TestGetSummaryCapsTopPartners(t *testing.T) {
	var list []*partnerdomain.Partner
	for i := 1; i <= 8; i++ {
		list = append(list, rankedPartner("PRT"+string(rune('0'+i)), i, "payment"))
	}
	partners := &fakePartnerStore{partners: list}

	svc := NewDashboardService(partners, &fakeHealthStore{}, &fakeAlertStore{}, nil, slog.Default())
	summary, err := svc.GetSummary(context.Background(), "USR1")
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if len(summary.TopPartners) != topPartnerLimit {
		t.Fatalf("top partners = %d, want %d", len(summary.TopPartners), topPartnerLimit)
	}
}
