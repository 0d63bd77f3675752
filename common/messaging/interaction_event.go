package messaging

import "time"

// ==================== Topic 定义 ====================

const (
	TopicEventCreated     = "event.created"
	TopicEventInteraction = "event.interaction"
	TopicEventDeleted     = "event.deleted"
)

// ==================== 事件结构体 ====================

// EventCreatedMessage 活动创建
// 消费者：热门缓存（新活动可能进入榜单）
type EventCreatedMessage struct {
	EventID     string    `json:"event_id"`
	OrganizerID string    `json:"organizer_id"`
	Title       string    `json:"title"`
	CreatedAt   time.Time `json:"created_at"`
}

// EventInteractionMessage 用户对活动的一次互动（报名、点赞、分享等）
// Action 与活动日志的 action 取值一致；匿名分享时 UserID 为空
type EventInteractionMessage struct {
	EventID    string    `json:"event_id"`
	UserID     string    `json:"user_id,omitempty"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventDeletedMessage 活动删除
type EventDeletedMessage struct {
	EventID   string    `json:"event_id"`
	DeletedBy string    `json:"deleted_by,omitempty"`
	DeletedAt time.Time `json:"deleted_at"`
}
