// Package cache 提供通用缓存工具
//
// 设计原则：
//   - Key 命名规范：{业务}:{模块}:{标识}，如 event:trending:top20
//   - 随机 TTL 防止缓存雪崩
package cache

import (
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/mathx"
)

// ==================== 默认配置 ====================

const (
	// DefaultTTL 默认缓存过期时间（5 分钟）
	DefaultTTL = 5 * time.Minute

	// ViewDedupTTL 浏览去重窗口（1 小时）
	ViewDedupTTL = time.Hour

	// DefaultJitter 默认 TTL 抖动系数（±10%）
	DefaultJitter = 0.1
)

// unstable 随机数生成器，用于 TTL 抖动
var unstable = mathx.NewUnstable(DefaultJitter)

// ==================== TTL 工具函数 ====================

// RandomTTL 生成带抖动的 TTL，防止大量 key 同时过期
//
//	RandomTTL(5 * time.Minute) => 4.5min ~ 5.5min
func RandomTTL(base time.Duration) time.Duration {
	return unstable.AroundDuration(base)
}

// RandomTTLSeconds 返回带抖动的 TTL（秒数），用于 SETEX
func RandomTTLSeconds(base time.Duration) int {
	return int(RandomTTL(base).Seconds())
}

// ==================== Key 生成函数 ====================

// TrendingEventsKey 热门活动缓存 Key
//
// 格式：event:trending:top{n}
// 用途：缓存按热度分排序的公开活动
func TrendingEventsKey(n int) string {
	return fmt.Sprintf("event:trending:top%d", n)
}

// ViewDedupKey 浏览量防刷 Key
//
// 格式：event:view:{event_id}:{viewer}
// 用途：同一访客在窗口期内只计一次浏览
func ViewDedupKey(eventID, viewer string) string {
	return fmt.Sprintf("event:view:%s:%s", eventID, viewer)
}
