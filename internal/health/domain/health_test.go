package domain

import (
	"reflect"
	"testing"
	"time"

	partnerdomain "github.com/wyfcoding/prm/internal/partner/domain"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func activityAt(daysAgo int, typ partnerdomain.ActivityType, status partnerdomain.ActivityStatus) *partnerdomain.PartnerActivity {
	a := &partnerdomain.PartnerActivity{Type: typ, Status: status}
	a.CreatedAt = now.AddDate(0, 0, -daysAgo)
	return a
}

func task(priority partnerdomain.TaskPriority, status partnerdomain.TaskStatus) *partnerdomain.PartnerTask {
	return &partnerdomain.PartnerTask{Priority: priority, Status: status}
}

func TestCalculateNoActivityUsesSentinel(t *testing.T) {
	calc := Calculate("PRT1", nil, nil, now)

	if calc.DaysSinceContact != NoContactSentinelDays {
		t.Fatalf("days_since_last_contact = %d, want %d", calc.DaysSinceContact, NoContactSentinelDays)
	}
	if calc.LastActivityAt != nil {
		t.Fatalf("last_activity_date should be nil, got %v", calc.LastActivityAt)
	}
	// 999 > 30 必然触发失联扣分
	if calc.PerformanceScore != 80 {
		t.Fatalf("performance = %d, want 80", calc.PerformanceScore)
	}
	if calc.EngagementScore != 0 {
		t.Fatalf("engagement = %d, want 0", calc.EngagementScore)
	}
	// commercial = 0*10 - 999*2 截断到 0
	if calc.CommercialScore != 0 {
		t.Fatalf("commercial = %d, want 0", calc.CommercialScore)
	}
}

func TestCalculateEndToEndScenario(t *testing.T) {
	// 两条 completed 活动（10 天前与 40 天前，均非会议类），
	// 一个高优先级未完成任务，一个已完成任务
	activities := []*partnerdomain.PartnerActivity{
		activityAt(10, partnerdomain.ActivityTypeEmail, partnerdomain.ActivityStatusCompleted),
		activityAt(40, partnerdomain.ActivityTypeNote, partnerdomain.ActivityStatusCompleted),
	}
	tasks := []*partnerdomain.PartnerTask{
		task(partnerdomain.TaskPriorityHigh, partnerdomain.TaskStatusTodo),
		task(partnerdomain.TaskPriorityHigh, partnerdomain.TaskStatusDone),
	}

	calc := Calculate("PRT1", activities, tasks, now)

	if calc.DaysSinceContact != 10 {
		t.Fatalf("days_since_last_contact = %d, want 10", calc.DaysSinceContact)
	}
	if calc.OpenIssuesCount != 1 {
		t.Fatalf("open_issues = %d, want 1", calc.OpenIssuesCount)
	}
	if calc.MeetingsThisMonth != 0 {
		t.Fatalf("meetings_this_month = %d, want 0", calc.MeetingsThisMonth)
	}
	// performance = 100 - 1*10 - 0 = 90
	if calc.PerformanceScore != 90 {
		t.Fatalf("performance = %d, want 90", calc.PerformanceScore)
	}
	// commercial = 2*10 - 10*2 = 0
	if calc.CommercialScore != 0 {
		t.Fatalf("commercial = %d, want 0", calc.CommercialScore)
	}
	// engagement = 0*20 + 1*5 = 5（只有 10 天前那条在窗口内）
	if calc.EngagementScore != 5 {
		t.Fatalf("engagement = %d, want 5", calc.EngagementScore)
	}
	// overall = round(90*0.4 + 5*0.3 + 0*0.3) = round(37.5) = 38
	if calc.OverallScore != 38 {
		t.Fatalf("overall = %d, want 38", calc.OverallScore)
	}
	if calc.HealthStatus != HealthCritical {
		t.Fatalf("status = %s, want critical", calc.HealthStatus)
	}
}

func TestCalculateClampsBeforeWeighting(t *testing.T) {
	// 12 个会议 → engagement 原始值 12*20+12*5 = 300，须先截断到 100
	var activities []*partnerdomain.PartnerActivity
	for i := 0; i < 12; i++ {
		activities = append(activities, activityAt(1, partnerdomain.ActivityTypeMeeting, partnerdomain.ActivityStatusCompleted))
	}

	calc := Calculate("PRT1", activities, nil, now)

	if calc.EngagementScore != 100 {
		t.Fatalf("engagement = %d, want clamped 100", calc.EngagementScore)
	}
	// performance = 100, commercial = 12*10 - 1*2 = 118 → 100
	if calc.CommercialScore != 100 {
		t.Fatalf("commercial = %d, want clamped 100", calc.CommercialScore)
	}
	if calc.OverallScore != 100 {
		t.Fatalf("overall = %d, want 100", calc.OverallScore)
	}
	if calc.HealthStatus != HealthExcellent {
		t.Fatalf("status = %s, want excellent", calc.HealthStatus)
	}
}

func TestCalculateIdempotent(t *testing.T) {
	activities := []*partnerdomain.PartnerActivity{
		activityAt(5, partnerdomain.ActivityTypeCall, partnerdomain.ActivityStatusCompleted),
	}
	tasks := []*partnerdomain.PartnerTask{task(partnerdomain.TaskPriorityHigh, partnerdomain.TaskStatusTodo)}

	first := Calculate("PRT1", activities, tasks, now)
	second := Calculate("PRT1", activities, tasks, now)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same input must give same calculation: %+v vs %+v", first, second)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		overall int
		want    HealthStatus
	}{
		{100, HealthExcellent},
		{80, HealthExcellent},
		{79, HealthGood},
		{60, HealthGood},
		{59, HealthWarning},
		{40, HealthWarning},
		{39, HealthCritical},
		{0, HealthCritical},
	}
	for _, tc := range cases {
		if got := StatusFor(tc.overall); got != tc.want {
			t.Fatalf("StatusFor(%d) = %s, want %s", tc.overall, got, tc.want)
		}
	}
}

func TestEvaluateAlertsNoContactSeverity(t *testing.T) {
	calc := Calculation{DaysSinceContact: 45, HealthStatus: HealthGood}
	drafts := EvaluateAlerts(calc)
	if len(drafts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(drafts))
	}
	if drafts[0].AlertType != AlertTypeNoContact || drafts[0].Severity != SeverityMedium {
		t.Fatalf("unexpected draft: %+v", drafts[0])
	}

	calc.DaysSinceContact = 61
	drafts = EvaluateAlerts(calc)
	if drafts[0].Severity != SeverityHigh {
		t.Fatalf("severity = %s, want high for >60 days", drafts[0].Severity)
	}
}

func TestEvaluateAlertsIndependentConditions(t *testing.T) {
	// 三个条件同时满足时应产生三条告警
	calc := Calculation{
		DaysSinceContact: NoContactSentinelDays,
		OpenIssuesCount:  4,
		OverallScore:     12,
		HealthStatus:     HealthCritical,
	}
	drafts := EvaluateAlerts(calc)
	if len(drafts) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(drafts))
	}
	types := map[string]bool{}
	for _, d := range drafts {
		types[d.AlertType] = true
	}
	for _, want := range []string{AlertTypeNoContact, AlertTypeHighPriorityIssues, AlertTypeHealthCritical} {
		if !types[want] {
			t.Fatalf("missing alert type %s in %v", want, types)
		}
	}
}

func TestEvaluateAlertsBoundary(t *testing.T) {
	// 正好 30 天 / 正好 3 个问题不触发
	calc := Calculation{DaysSinceContact: 30, OpenIssuesCount: 3, HealthStatus: HealthWarning}
	if drafts := EvaluateAlerts(calc); len(drafts) != 0 {
		t.Fatalf("expected no alerts at boundary, got %+v", drafts)
	}
}
