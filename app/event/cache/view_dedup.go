package cache

import (
	"context"

	commonCache "campus-connect/common/cache"

	"github.com/zeromicro/go-zero/core/logx"
)

// ViewDeduper 浏览去重：同一访客在窗口期内只计一次
type ViewDeduper struct {
	kv KV
}

// NewViewDeduper 创建去重器；kv 为 nil 时每次浏览都计数
func NewViewDeduper(kv KV) *ViewDeduper {
	return &ViewDeduper{kv: kv}
}

// First 是否为窗口期内的首次浏览；Redis 出错时按首次处理
func (d *ViewDeduper) First(ctx context.Context, eventID, viewer string) bool {
	if d == nil || d.kv == nil || viewer == "" {
		return true
	}

	ok, err := d.kv.SetnxExCtx(ctx, commonCache.ViewDedupKey(eventID, viewer), "1",
		commonCache.RandomTTLSeconds(commonCache.ViewDedupTTL))
	if err != nil {
		logx.WithContext(ctx).Errorf("[ViewDedup] Redis 错误: eventId=%s, err=%v", eventID, err)
		return true
	}
	return ok
}
