package svc

import (
	"context"
	"time"

	"campus-connect/app/event/activitylog"
	"campus-connect/app/event/api/internal/config"
	"campus-connect/app/event/api/internal/hub"
	eventMiddleware "campus-connect/app/event/api/internal/middleware"
	"campus-connect/app/event/assistant"
	"campus-connect/app/event/cache"
	"campus-connect/app/event/club"
	"campus-connect/app/event/model"
	"campus-connect/app/event/mq"
	"campus-connect/app/event/repo"
	"campus-connect/app/event/store"
	"campus-connect/common/messaging"
	"campus-connect/common/middleware"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/service"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/rest"
)

// ServiceContext 活动服务上下文
type ServiceContext struct {
	Config config.Config

	// 存储
	Committer store.Committer
	closeFn   func(ctx context.Context) error

	// 业务组件
	Events    *repo.Repository
	Logs      *activitylog.Logger
	Clubs     *club.Service
	Assistant *assistant.Assistant
	Trending  *cache.TrendingCache
	Views     *cache.ViewDeduper
	Hub       *hub.Hub

	// 消息
	MessagingClient *messaging.Client
	Consumer        *mq.Consumer

	// 中间件
	AuthMiddleware         rest.Middleware
	OptionalAuthMiddleware rest.Middleware
	RateLimitMiddleware    rest.Middleware

	Now func() time.Time
}

// NewServiceContext 按配置组装各组件，失败直接退出
func NewServiceContext(c config.Config) *ServiceContext {
	// ==================== 存储 ====================
	var (
		committer store.Committer
		events    store.Collection[model.Event]
		logs      store.Collection[model.ActivityLog]
		clubs     store.Collection[model.Club]
		closeFn   = func(context.Context) error { return nil }
	)
	switch c.Store.Driver {
	case config.StoreMongo:
		ms, err := store.NewMongoStore(context.Background(), c.Store.Mongo)
		logx.Must(err)
		if err := ms.EnsureIndexes(context.Background()); err != nil {
			logx.Errorf("[Svc] 创建索引失败: %v", err)
		}
		committer, closeFn = ms, ms.Close
		events = store.NewMongoCollection[model.Event](ms, repo.Collection)
		logs = store.NewMongoCollection[model.ActivityLog](ms, activitylog.Collection)
		clubs = store.NewMongoCollection[model.Club](ms, club.Collection)
	default:
		mem := store.NewMemoryStore()
		committer = mem
		events = store.NewMemoryCollection[model.Event](mem, repo.Collection)
		logs = store.NewMemoryCollection[model.ActivityLog](mem, activitylog.Collection)
		clubs = store.NewMemoryCollection[model.Club](mem, club.Collection)
	}

	// ==================== Redis（可选） ====================
	var (
		kv      cache.KV
		limiter eventMiddleware.Limiter
	)
	if c.RedisEnabled() {
		rds := redis.MustNewRedis(c.Redis)
		kv = rds
		if c.RateLimit.Quota > 0 {
			limiter = eventMiddleware.NewRedisLimiter(rds, c.RateLimit.Period, c.RateLimit.Quota)
		}
	} else if c.RateLimit.Quota > 0 {
		limiter = eventMiddleware.NewLocalLimiter(c.RateLimit.Period, c.RateLimit.Quota)
	}

	// ==================== 消息 ====================
	mqConf := c.Messaging
	if mqConf.Driver == "" {
		mqConf = messaging.DefaultConfig()
	}
	mqClient, err := messaging.NewClient(mqConf)
	logx.Must(err)

	// ==================== 业务组件 ====================
	logger := activitylog.New(logs)
	eventRepo := repo.New(events, committer, logger,
		repo.WithStrictCapacity(c.Events.StrictCapacity),
		repo.WithNotifier(mq.NewProducer(mqClient)),
	)
	trending := cache.NewTrendingCache(kv, func(context.Context) ([]model.Event, error) {
		return eventRepo.State().Events, nil
	})

	return &ServiceContext{
		Config:    c,
		Committer: committer,
		closeFn:   closeFn,

		Events:    eventRepo,
		Logs:      logger,
		Clubs:     club.New(clubs),
		Assistant: assistant.New(assistant.NewGeminiClient(c.Assistant)),
		Trending:  trending,
		Views:     cache.NewViewDeduper(kv),
		Hub:       hub.NewHub(eventRepo, c.Events.PageSize),

		MessagingClient: mqClient,
		Consumer:        mq.NewConsumer(mqClient, trending),

		AuthMiddleware:         middleware.NewAuthMiddleware(c.Auth.AccessSecret).Handle,
		OptionalAuthMiddleware: middleware.NewOptionalAuthMiddleware(c.Auth.AccessSecret).Handle,
		RateLimitMiddleware:    eventMiddleware.NewRateLimitMiddleware(limiter).Handle,

		Now: time.Now,
	}
}

// Background 后台任务：镜像同步、WebSocket Hub、消息消费
func (s *ServiceContext) Background() []service.Service {
	return []service.Service{
		newRunner("event-mirror", func(ctx context.Context) {
			if err := s.Events.Run(ctx); err != nil {
				logx.Errorf("[Svc] 活动镜像同步退出: %v", err)
			}
		}),
		newRunner("event-hub", s.Hub.Run),
		s.Consumer,
	}
}

// Close 释放存储连接
func (s *ServiceContext) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.closeFn(ctx); err != nil {
		logx.Errorf("[Svc] 关闭存储失败: %v", err)
	}
}

// runner 把阻塞函数包装为 service.Service
type runner struct {
	name   string
	run    func(ctx context.Context)
	ctx    context.Context
	cancel context.CancelFunc
}

func newRunner(name string, run func(ctx context.Context)) *runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &runner{name: name, run: run, ctx: ctx, cancel: cancel}
}

func (r *runner) Start() {
	logx.Infof("[Svc] 启动 %s", r.name)
	r.run(r.ctx)
}

func (r *runner) Stop() {
	r.cancel()
}
