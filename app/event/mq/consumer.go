package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"campus-connect/app/event/model"
	"campus-connect/common/messaging"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/zeromicro/go-zero/core/logx"
)

// Invalidator 需要在活动变化时失效的缓存
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// scoreActions 影响热度分的互动
var scoreActions = map[string]bool{
	string(model.ActionRSVP):       true,
	string(model.ActionCancelRSVP): true,
	string(model.ActionLike):       true,
	string(model.ActionUnlike):     true,
	string(model.ActionShare):      true,
}

// Consumer 活动消息消费者：活动创建、删除或热度变化时失效热门缓存。
// 实现 go-zero service.Service，可加入 ServiceGroup。
type Consumer struct {
	client   *messaging.Client
	trending Invalidator
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewConsumer 创建消费者并注册处理器
func NewConsumer(client *messaging.Client, trending Invalidator) *Consumer {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Consumer{client: client, trending: trending, ctx: ctx, cancel: cancel}

	client.Subscribe(messaging.TopicEventCreated, "event-trending-on-created", c.handleCreated)
	client.Subscribe(messaging.TopicEventInteraction, "event-trending-on-interaction", c.handleInteraction)
	client.Subscribe(messaging.TopicEventDeleted, "event-trending-on-deleted", c.handleDeleted)
	logx.Info("[MQ-Consumer] 已订阅 event.created / event.interaction / event.deleted")
	return c
}

// Start 启动消息路由（阻塞）
func (c *Consumer) Start() {
	logx.Info("[MQ-Consumer] 消息路由启动中...")
	if err := c.client.Run(c.ctx); err != nil {
		logx.Errorf("[MQ-Consumer] 消息路由停止: %v", err)
	}
}

// Stop 停止消息路由并关闭客户端
func (c *Consumer) Stop() {
	c.cancel()
	if err := c.client.Close(); err != nil {
		logx.Errorf("[MQ-Consumer] 关闭客户端失败: %v", err)
	}
}

func (c *Consumer) handleCreated(msg *message.Message) error {
	var event messaging.EventCreatedMessage
	if err := decode(msg, &event); err != nil {
		return err
	}
	return c.invalidate(msg.Context(), "created", event.EventID)
}

func (c *Consumer) handleInteraction(msg *message.Message) error {
	var event messaging.EventInteractionMessage
	if err := decode(msg, &event); err != nil {
		return err
	}
	if !scoreActions[event.Action] {
		return nil
	}
	return c.invalidate(msg.Context(), event.Action, event.EventID)
}

func (c *Consumer) handleDeleted(msg *message.Message) error {
	var event messaging.EventDeletedMessage
	if err := decode(msg, &event); err != nil {
		return err
	}
	return c.invalidate(msg.Context(), "deleted", event.EventID)
}

func (c *Consumer) invalidate(ctx context.Context, reason, eventID string) error {
	if err := c.trending.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate trending cache: %w", err)
	}
	logx.WithContext(ctx).Infof("[MQ-Consumer] 热门缓存已失效: reason=%s, eventId=%s", reason, eventID)
	return nil
}

func decode(msg *message.Message, v any) error {
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		logx.Errorf("[MQ-Consumer] 解析消息失败: uuid=%s, err=%v", msg.UUID, err)
		return messaging.NewNonRetryableError(fmt.Errorf("%w: %v", messaging.ErrInvalidPayload, err))
	}
	return nil
}
