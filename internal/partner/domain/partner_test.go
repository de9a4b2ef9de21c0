package domain

import "testing"

func TestCategoryRoundTrip(t *testing.T) {
	p := NewPartner("USR1", "测试伙伴", []PartnerCategory{CategoryLogistic, CategoryPayment})

	got := p.CategoryList()
	if len(got) != 2 || got[0] != CategoryLogistic || got[1] != CategoryPayment {
		t.Fatalf("categories = %v", got)
	}
	if !p.HasCategory(CategoryPayment) || p.HasCategory(CategoryMarketplace) {
		t.Fatalf("HasCategory wrong for %q", p.Categories)
	}

	p.SetCategories([]PartnerCategory{CategoryMarketplace})
	if !p.HasCategory(CategoryMarketplace) || p.HasCategory(CategoryLogistic) {
		t.Fatalf("SetCategories did not replace: %q", p.Categories)
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range []PartnerCategory{CategoryLogistic, CategoryPayment, CategoryMarketplace} {
		if !ValidCategory(c) {
			t.Fatalf("%s should be valid", c)
		}
	}
	if ValidCategory("banking") {
		t.Fatal("unknown category accepted")
	}
}

func TestIsMeetingLike(t *testing.T) {
	cases := []struct {
		typ  ActivityType
		want bool
	}{
		{ActivityTypeMeeting, true},
		{ActivityTypeCall, true},
		{ActivityTypeVideoCall, true},
		{ActivityTypeEmail, false},
		{ActivityTypeNote, false},
	}
	for _, tc := range cases {
		a := &PartnerActivity{Type: tc.typ}
		if a.IsMeetingLike() != tc.want {
			t.Fatalf("IsMeetingLike(%s) = %v, want %v", tc.typ, !tc.want, tc.want)
		}
	}
}

func TestIsOpenIssue(t *testing.T) {
	cases := []struct {
		priority TaskPriority
		status   TaskStatus
		want     bool
	}{
		{TaskPriorityHigh, TaskStatusTodo, true},
		{TaskPriorityHigh, TaskStatusInProgress, true},
		{TaskPriorityHigh, TaskStatusDone, false},
		{TaskPriorityMedium, TaskStatusTodo, false},
		{TaskPriorityLow, TaskStatusTodo, false},
	}
	for _, tc := range cases {
		task := &PartnerTask{Priority: tc.priority, Status: tc.status}
		if task.IsOpenIssue() != tc.want {
			t.Fatalf("IsOpenIssue(%s/%s) = %v, want %v", tc.priority, tc.status, !tc.want, tc.want)
		}
	}
}
