// Package messaging 健康模块事件发布实现
package messaging

import (
	"context"

	"github.com/wyfcoding/pkg/messagequeue/outbox"
	"github.com/wyfcoding/prm/internal/health/domain"
)

// outboxPublisher 基于 Outbox 模式的事件发布者实现
type outboxPublisher struct {
	manager *outbox.Manager
}

// NewOutboxPublisher 创建一个新的 OutboxPublisher 实例
func NewOutboxPublisher(manager *outbox.Manager) domain.EventPublisher {
	return &outboxPublisher{manager: manager}
}

// Publish 先落 Outbox 表，由后台 Processor 异步推送到 Kafka
func (p *outboxPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	return p.manager.PublishInTx(ctx, p.manager.DB(), topic, key, event)
}
