// Package activitylog 活动互动日志
//
// 每次互动（报名、点赞、评论、签到等）追加一条不可变记录，供组织者查看。
// 写日志失败只打诊断日志，绝不影响主流程。
package activitylog

import (
	"context"
	"time"

	"campus-connect/app/event/model"
	"campus-connect/app/event/store"

	"github.com/zeromicro/go-zero/core/logx"
)

const (
	// Collection 日志集合名
	Collection = "activityLogs"

	defaultEventLimit  = 100
	defaultRecentLimit = 200
	maxLimit           = 500
)

// Logger 活动日志记录器
type Logger struct {
	logs store.Collection[model.ActivityLog]
	now  func() time.Time
}

// New 创建日志记录器
func New(logs store.Collection[model.ActivityLog]) *Logger {
	return &Logger{logs: logs, now: time.Now}
}

// WithClock 替换时钟（测试用）
func (l *Logger) WithClock(now func() time.Time) *Logger {
	l.now = now
	return l
}

// Log 追加一条日志；失败只记录诊断信息
func (l *Logger) Log(ctx context.Context, eventID, eventTitle string, actor model.Actor, action model.Action, details string) {
	if l == nil || l.logs == nil {
		return
	}

	entry := model.ActivityLog{
		EventID:    eventID,
		EventTitle: eventTitle,
		UserID:     actor.ID,
		UserName:   actor.Name,
		UserPhoto:  actor.PhotoURL,
		Action:     action,
		Timestamp:  l.now(),
		Details:    details,
	}

	defer func() {
		if r := recover(); r != nil {
			logx.WithContext(ctx).Errorf("[ActivityLog] panic recovered: eventId=%s, action=%s, err=%v", eventID, action, r)
		}
	}()

	if _, err := l.logs.Insert(ctx, entry); err != nil {
		logx.WithContext(ctx).Errorf("[ActivityLog] 写入失败: eventId=%s, userId=%s, action=%s, err=%v",
			eventID, actor.ID, action, err)
	}
}

// ForEvent 某活动的日志，按时间倒序
func (l *Logger) ForEvent(ctx context.Context, eventID string, limit int) ([]model.ActivityLog, error) {
	q := store.Where(model.FieldLogEventID, eventID).
		Sort(model.FieldLogTimestamp, true).
		Take(clamp(limit, defaultEventLimit))
	return l.logs.Find(ctx, q)
}

// Recent 全部活动的最近日志，按时间倒序
func (l *Logger) Recent(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	q := store.Query{}.
		Sort(model.FieldLogTimestamp, true).
		Take(clamp(limit, defaultRecentLimit))
	return l.logs.Find(ctx, q)
}

func clamp(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
