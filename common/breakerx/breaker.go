// Package breakerx 固定阈值熔断器，用于第三方 API 调用
//
// 窗口内错误率超过阈值后在 OpenTimeout 内拒绝全部请求，之后只放行一个探测请求：
// 探测成功则关闭，失败则重新打开。
package breakerx

import (
	"context"
	"sync"
	"time"

	"github.com/zeromicro/go-zero/core/breaker"
	"github.com/zeromicro/go-zero/core/collection"
)

const (
	defaultWindow      = 10 * time.Second
	defaultBuckets     = 20
	defaultMinRequests = 20
	defaultErrorRate   = 0.5
	defaultOpenTimeout = 30 * time.Second
)

type state int

const (
	closed state = iota
	open
	halfOpen
)

// Config 熔断配置，零值字段使用默认值
type Config struct {
	Name string
	// MinRequests 窗口内请求数达到该值才计算错误率
	MinRequests int
	// ErrorRate 打开熔断的错误率阈值 (0, 1]
	ErrorRate float64
	// OpenTimeout 熔断打开后拒绝请求的时长，之后放行一个探测请求
	OpenTimeout time.Duration
}

// New 创建熔断器
func New(cfg Config) breaker.Breaker {
	if cfg.MinRequests <= 0 {
		cfg.MinRequests = defaultMinRequests
	}
	if cfg.ErrorRate <= 0 || cfg.ErrorRate > 1 {
		cfg.ErrorRate = defaultErrorRate
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaultOpenTimeout
	}
	return newThresholdBreaker(cfg, time.Now)
}

type thresholdBreaker struct {
	cfg    Config
	now    func() time.Time
	window *collection.RollingWindow[int64, *collection.Bucket[int64]]

	mu        sync.Mutex
	state     state
	openUntil time.Time
}

func newThresholdBreaker(cfg Config, now func() time.Time) *thresholdBreaker {
	return &thresholdBreaker{
		cfg: cfg,
		now: now,
		window: collection.NewRollingWindow[int64, *collection.Bucket[int64]](
			func() *collection.Bucket[int64] { return &collection.Bucket[int64]{} },
			defaultBuckets,
			defaultWindow/time.Duration(defaultBuckets),
		),
	}
}

func (b *thresholdBreaker) Name() string {
	return b.cfg.Name
}

// acquire 判断是否放行；半开状态只放行一个探测请求
func (b *thresholdBreaker) acquire() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case open:
		if b.now().Before(b.openUntil) {
			return breaker.ErrServiceUnavailable
		}
		b.state = halfOpen
		return nil
	case halfOpen:
		// 探测请求尚未返回
		return breaker.ErrServiceUnavailable
	default:
		return nil
	}
}

func (b *thresholdBreaker) record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == halfOpen {
		if success {
			b.state = closed
			b.resetWindowLocked()
		} else {
			b.tripLocked()
		}
		return
	}

	if success {
		b.window.Add(0)
	} else {
		b.window.Add(1)
	}

	var failures, total int64
	b.window.Reduce(func(bucket *collection.Bucket[int64]) {
		failures += bucket.Sum
		total += bucket.Count
	})
	if total >= int64(b.cfg.MinRequests) && float64(failures)/float64(total) >= b.cfg.ErrorRate {
		b.tripLocked()
	}
}

func (b *thresholdBreaker) tripLocked() {
	b.state = open
	b.openUntil = b.now().Add(b.cfg.OpenTimeout)
	b.resetWindowLocked()
}

func (b *thresholdBreaker) resetWindowLocked() {
	b.window = collection.NewRollingWindow[int64, *collection.Bucket[int64]](
		func() *collection.Bucket[int64] { return &collection.Bucket[int64]{} },
		defaultBuckets,
		defaultWindow/time.Duration(defaultBuckets),
	)
}

func (b *thresholdBreaker) call(ctx context.Context, req func() error, fallback breaker.Fallback, acceptable breaker.Acceptable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if acceptable == nil {
		acceptable = func(err error) bool { return err == nil }
	}
	if err := b.acquire(); err != nil {
		if fallback != nil {
			return fallback(err)
		}
		return err
	}

	defer func() {
		if e := recover(); e != nil {
			b.record(false)
			panic(e)
		}
	}()

	err := req()
	b.record(acceptable(err))
	return err
}

// ==================== breaker.Breaker ====================

func (b *thresholdBreaker) Allow() (breaker.Promise, error) {
	if err := b.acquire(); err != nil {
		return nil, err
	}
	return promise{b: b}, nil
}

func (b *thresholdBreaker) AllowCtx(ctx context.Context) (breaker.Promise, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b.Allow()
}

func (b *thresholdBreaker) Do(req func() error) error {
	return b.call(context.Background(), req, nil, nil)
}

func (b *thresholdBreaker) DoCtx(ctx context.Context, req func() error) error {
	return b.call(ctx, req, nil, nil)
}

func (b *thresholdBreaker) DoWithAcceptable(req func() error, acceptable breaker.Acceptable) error {
	return b.call(context.Background(), req, nil, acceptable)
}

func (b *thresholdBreaker) DoWithAcceptableCtx(ctx context.Context, req func() error, acceptable breaker.Acceptable) error {
	return b.call(ctx, req, nil, acceptable)
}

func (b *thresholdBreaker) DoWithFallback(req func() error, fallback breaker.Fallback) error {
	return b.call(context.Background(), req, fallback, nil)
}

func (b *thresholdBreaker) DoWithFallbackCtx(ctx context.Context, req func() error, fallback breaker.Fallback) error {
	return b.call(ctx, req, fallback, nil)
}

func (b *thresholdBreaker) DoWithFallbackAcceptable(req func() error, fallback breaker.Fallback,
	acceptable breaker.Acceptable) error {
	return b.call(context.Background(), req, fallback, acceptable)
}

func (b *thresholdBreaker) DoWithFallbackAcceptableCtx(ctx context.Context, req func() error,
	fallback breaker.Fallback, acceptable breaker.Acceptable) error {
	return b.call(ctx, req, fallback, acceptable)
}

type promise struct {
	b *thresholdBreaker
}

func (p promise) Accept() {
	p.b.record(true)
}

func (p promise) Reject(_ string) {
	p.b.record(false)
}
