package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"campus-connect/common/ctxdata"
	"campus-connect/common/errorx"
	"campus-connect/common/response"

	"github.com/zeromicro/go-zero/core/limit"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

const (
	rateLimitKeyPrefix = "event:ratelimit:"
	// 本地桶超过该数量时清理长时间未使用的桶
	maxLocalBuckets = 10000
	bucketIdleTTL   = 10 * time.Minute
)

// Limiter 按 key 判定是否放行
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// ==================== 本地令牌桶 ====================

type bucket struct {
	tokens     float64
	lastUpdate time.Time
}

// LocalLimiter 进程内令牌桶，每个 key 一个桶；未配置 Redis 时使用
type LocalLimiter struct {
	rate    float64 // 每秒生成令牌数
	burst   int     // 桶容量
	now     func() time.Time
	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewLocalLimiter 创建本地限流器：period 秒内最多 quota 次，允许一次性突发 quota 次
func NewLocalLimiter(period, quota int) *LocalLimiter {
	if period <= 0 {
		period = 1
	}
	return &LocalLimiter{
		rate:    float64(quota) / float64(period),
		burst:   quota,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// Allow 消耗一个令牌
func (l *LocalLimiter) Allow(_ context.Context, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= maxLocalBuckets {
			l.evictLocked(now)
		}
		b = &bucket{tokens: float64(l.burst), lastUpdate: now}
		l.buckets[key] = b
	}

	b.tokens += now.Sub(b.lastUpdate).Seconds() * l.rate
	if b.tokens > float64(l.burst) {
		b.tokens = float64(l.burst)
	}
	b.lastUpdate = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

func (l *LocalLimiter) evictLocked(now time.Time) {
	for k, b := range l.buckets {
		if now.Sub(b.lastUpdate) > bucketIdleTTL {
			delete(l.buckets, k)
		}
	}
}

// ==================== Redis 固定窗口 ====================

// RedisLimiter 基于 go-zero PeriodLimit 的分布式限流，Redis 异常时放行
type RedisLimiter struct {
	pl *limit.PeriodLimit
}

// NewRedisLimiter 创建分布式限流器
func NewRedisLimiter(rds *redis.Redis, period, quota int) *RedisLimiter {
	return &RedisLimiter{pl: limit.NewPeriodLimit(period, quota, rds, rateLimitKeyPrefix)}
}

// Allow 判定是否放行
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	code, err := l.pl.TakeCtx(ctx, key)
	if err != nil {
		logx.WithContext(ctx).Errorf("[RateLimit] Redis 错误，放行: key=%s, err=%v", key, err)
		return true
	}
	return code != limit.OverQuota
}

// ==================== 中间件 ====================

// RateLimitMiddleware 写接口限流中间件
type RateLimitMiddleware struct {
	limiter Limiter
}

// NewRateLimitMiddleware limiter 为 nil 时不限流
func NewRateLimitMiddleware(limiter Limiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// Handle 中间件处理函数
func (m *RateLimitMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.limiter != nil && !m.limiter.Allow(r.Context(), limitKey(r)) {
			response.FailWithCode(w, errorx.CodeTooManyRequests)
			return
		}
		next(w, r)
	}
}

// limitKey 已登录按用户，匿名按客户端 IP
func limitKey(r *http.Request) string {
	if uid := ctxdata.GetUserIDFromCtx(r.Context()); uid != "" {
		return "u:" + uid
	}
	return "ip:" + clientIP(r)
}

// clientIP 获取客户端IP
func clientIP(r *http.Request) string {
	// 优先从X-Forwarded-For获取第一跳
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			xff = xff[:i]
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
