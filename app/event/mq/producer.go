// Package mq 活动消息：互动事件的发布与消费
package mq

import (
	"context"
	"encoding/json"
	"time"

	"campus-connect/app/event/model"
	"campus-connect/common/messaging"

	"github.com/zeromicro/go-zero/core/logx"
)

const publishTimeout = 3 * time.Second

// Producer 活动消息发布器，实现 repo.Notifier
// nil 安全：Producer 或 Client 为 nil 时所有方法静默返回
type Producer struct {
	client *messaging.Client
	now    func() time.Time
}

// NewProducer 创建消息发布器
func NewProducer(client *messaging.Client) *Producer {
	if client == nil {
		return nil
	}
	return &Producer{client: client, now: time.Now}
}

// publishAsync 异步发布，失败只记日志，不影响主业务
func (p *Producer) publishAsync(topic string, payload interface{}) {
	if p == nil || p.client == nil {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logx.Errorf("[MQ-Producer] panic recovered: topic=%s, err=%v", topic, r)
			}
		}()

		data, err := json.Marshal(payload)
		if err != nil {
			logx.Errorf("[MQ-Producer] 序列化失败: topic=%s, err=%v", topic, err)
			return
		}

		pubCtx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := p.client.Publish(pubCtx, topic, data); err != nil {
			logx.Errorf("[MQ-Producer] 发布失败: topic=%s, err=%v", topic, err)
			return
		}
		logx.Infof("[MQ-Producer] 发布成功: topic=%s, size=%d", topic, len(data))
	}()
}

// EventCreated 发布活动创建事件
func (p *Producer) EventCreated(_ context.Context, e model.Event) {
	if p == nil {
		return
	}
	p.publishAsync(messaging.TopicEventCreated, messaging.EventCreatedMessage{
		EventID:     e.ID,
		OrganizerID: e.OrganizerID,
		Title:       e.Title,
		CreatedAt:   e.CreatedAt,
	})
}

// Interaction 发布互动事件
func (p *Producer) Interaction(_ context.Context, eventID, userID string, action model.Action) {
	if p == nil {
		return
	}
	p.publishAsync(messaging.TopicEventInteraction, messaging.EventInteractionMessage{
		EventID:    eventID,
		UserID:     userID,
		Action:     string(action),
		OccurredAt: p.now(),
	})
}

// EventDeleted 发布活动删除事件
func (p *Producer) EventDeleted(_ context.Context, eventID string) {
	if p == nil {
		return
	}
	p.publishAsync(messaging.TopicEventDeleted, messaging.EventDeletedMessage{
		EventID:   eventID,
		DeletedAt: p.now(),
	})
}
