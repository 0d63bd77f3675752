package repo

import (
	"context"
	"time"

	"campus-connect/app/event/model"

	"github.com/google/uuid"
)

// Notifier 互动事件通知（消息队列），实现需保证不阻塞、不返回错误
type Notifier interface {
	EventCreated(ctx context.Context, e model.Event)
	Interaction(ctx context.Context, eventID, userID string, action model.Action)
	EventDeleted(ctx context.Context, eventID string)
}

type noopNotifier struct{}

func (noopNotifier) EventCreated(context.Context, model.Event)                 {}
func (noopNotifier) Interaction(context.Context, string, string, model.Action) {}
func (noopNotifier) EventDeleted(context.Context, string)                      {}

type options struct {
	strictCapacity bool
	maxAttempts    int
	now            func() time.Time
	newID          func() string
	notifier       Notifier
}

// Option Repository 配置项
type Option func(*options)

// WithStrictCapacity 报名写入附带长度条件，并发下也不会超员
func WithStrictCapacity(strict bool) Option {
	return func(o *options) { o.strictCapacity = strict }
}

// WithClock 替换时钟
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator 替换评论ID生成器
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// WithNotifier 设置消息通知；nil 表示不通知
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		if n != nil {
			o.notifier = n
		}
	}
}

func defaultOptions() options {
	return options{
		maxAttempts: 3,
		now:         time.Now,
		newID:       uuid.NewString,
		notifier:    noopNotifier{},
	}
}
