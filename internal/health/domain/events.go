package domain

import (
	"context"
	"time"
)

// 事件主题
const (
	PartnerAlertRaisedEventType  = "prm.partner.alert.raised"
	HealthScanCompletedEventType = "prm.partner.health.scan_completed"
)

// PartnerAlertRaisedEvent 告警生成事件
type PartnerAlertRaisedEvent struct {
	AlertID   string    `json:"alert_id"`
	PartnerID string    `json:"partner_id"`
	UserID    string    `json:"user_id"`
	AlertType string    `json:"alert_type"`
	Severity  string    `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthScanCompletedEvent 批量评分完成事件
type HealthScanCompletedEvent struct {
	UserID            string    `json:"user_id"`
	PartnersProcessed int       `json:"partners_processed"`
	AlertsGenerated   int       `json:"alerts_generated"`
	Timestamp         time.Time `json:"timestamp"`
}

// EventPublisher 事件发布者接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
