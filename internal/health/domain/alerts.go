package domain

import "fmt"

// 告警类型
const (
	AlertTypeNoContact          = "no_contact"
	AlertTypeHighPriorityIssues = "high_priority_issues"
	AlertTypeHealthCritical     = "health_critical"
)

// 告警级别
const (
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// AlertDraft 待落库的告警内容（由评分结果推导）
type AlertDraft struct {
	AlertType string
	Severity  string
	Title     string
	Message   string
}

// EvaluateAlerts 按评分结果逐条判定告警触发条件
// 条件彼此独立，同一伙伴一次评分可能产生多条告警；
// 不做去重，每次满足条件的运行都会追加新记录
func EvaluateAlerts(calc Calculation) []AlertDraft {
	var drafts []AlertDraft

	if calc.DaysSinceContact > StaleContactDays {
		severity := SeverityMedium
		if calc.DaysSinceContact > SevereNoContactDays {
			severity = SeverityHigh
		}
		drafts = append(drafts, AlertDraft{
			AlertType: AlertTypeNoContact,
			Severity:  severity,
			Title:     "长时间未联系",
			Message:   fmt.Sprintf("已有 %d 天没有任何活动记录", calc.DaysSinceContact),
		})
	}

	if calc.OpenIssuesCount > OpenIssueAlertThreshold {
		drafts = append(drafts, AlertDraft{
			AlertType: AlertTypeHighPriorityIssues,
			Severity:  SeverityHigh,
			Title:     "高优先级问题积压",
			Message:   fmt.Sprintf("存在 %d 个未完成的高优先级任务", calc.OpenIssuesCount),
		})
	}

	if calc.HealthStatus == HealthCritical {
		drafts = append(drafts, AlertDraft{
			AlertType: AlertTypeHealthCritical,
			Severity:  SeverityCritical,
			Title:     "健康分处于危险区间",
			Message:   fmt.Sprintf("整体健康分 %d，需要立即跟进", calc.OverallScore),
		})
	}

	return drafts
}
