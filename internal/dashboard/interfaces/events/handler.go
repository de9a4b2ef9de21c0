// Package events 仪表盘事件订阅
package events

import (
	"context"
	"encoding/json"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
	"github.com/wyfcoding/prm/internal/dashboard/application"
)

// AlertEventHandler 告警事件处理器
// 新告警意味着汇总里的告警计数已过期，直接删缓存
type AlertEventHandler struct {
	service *application.DashboardService
	logger  *slog.Logger
}

func NewAlertEventHandler(service *application.DashboardService, logger *slog.Logger) *AlertEventHandler {
	return &AlertEventHandler{service: service, logger: logger.With("module", "dashboard_alert_handler")}
}

func (h *AlertEventHandler) HandleAlertRaised(ctx context.Context, msg kafkago.Message) error {
	var event struct {
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.ErrorContext(ctx, "failed to unmarshal alert event", "error", err)
		return err
	}
	if event.UserID == "" {
		return nil
	}

	if err := h.service.InvalidateSummary(ctx, event.UserID); err != nil {
		h.logger.WarnContext(ctx, "failed to invalidate dashboard cache", "user_id", event.UserID, "error", err)
	}
	return nil
}

func (h *AlertEventHandler) Subscribe(ctx context.Context, consumer *kafka.Consumer) {
	consumer.Start(ctx, 1, h.HandleAlertRaised)
}
