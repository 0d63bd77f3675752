package messaging

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	wmMiddleware "github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

// Client Watermill 消息客户端
type Client struct {
	Publisher   message.Publisher
	Subscriber  message.Subscriber
	Router      *message.Router
	config      Config
	redisClient *redis.Client
}

// NewClient 按配置创建消息客户端
func NewClient(config Config) (*Client, error) {
	logger := newWatermillLogger(config.ServiceName)

	var (
		publisher   message.Publisher
		subscriber  message.Subscriber
		redisClient *redis.Client
	)

	switch config.Driver {
	case DriverRedis:
		redisClient = redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}

		pub, err := redisstream.NewPublisher(redisstream.PublisherConfig{Client: redisClient}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create publisher: %w", err)
		}
		sub, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        redisClient,
			ConsumerGroup: config.ServiceName,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create subscriber: %w", err)
		}
		publisher, subscriber = pub, sub

	case DriverMemory, "":
		ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger)
		publisher, subscriber = ch, ch

	default:
		return nil, fmt.Errorf("unknown messaging driver %q", config.Driver)
	}

	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	// 中间件按顺序执行：recover -> 死信 -> 指标 -> 重试 -> 丢弃不可重试错误
	router.AddMiddleware(wmMiddleware.Recoverer)
	if config.PoisonTopic != "" {
		poison, err := wmMiddleware.PoisonQueue(publisher, config.PoisonTopic)
		if err != nil {
			return nil, fmt.Errorf("failed to create poison queue: %w", err)
		}
		router.AddMiddleware(poison)
	}
	router.AddMiddleware(metricsMiddleware)
	if config.MaxRetries > 0 {
		retry := wmMiddleware.Retry{
			MaxRetries:      config.MaxRetries,
			InitialInterval: config.InitialInterval,
			MaxInterval:     config.MaxInterval,
			Multiplier:      2.0,
			Logger:          logger,
		}
		router.AddMiddleware(retry.Middleware)
	}
	router.AddMiddleware(dropNonRetryable)

	return &Client{
		Publisher:   publisher,
		Subscriber:  subscriber,
		Router:      router,
		config:      config,
		redisClient: redisClient,
	}, nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if err := c.Router.Close(); err != nil {
		return fmt.Errorf("failed to close router: %w", err)
	}
	if err := c.Publisher.Close(); err != nil {
		return fmt.Errorf("failed to close publisher: %w", err)
	}
	if err := c.Subscriber.Close(); err != nil {
		return fmt.Errorf("failed to close subscriber: %w", err)
	}
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close redis client: %w", err)
		}
	}
	return nil
}

// Publish 发布消息
func (c *Client) Publish(ctx context.Context, topic string, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return c.Publisher.Publish(topic, msg)
}

// Subscribe 注册无回写的处理器，需调用 Run 启动
func (c *Client) Subscribe(topic string, handlerName string, handler message.NoPublishHandlerFunc) {
	c.Router.AddNoPublisherHandler(handlerName, topic, c.Subscriber, handler)
}

// Run 启动 Router（阻塞）
func (c *Client) Run(ctx context.Context) error {
	return c.Router.Run(ctx)
}

// Running 返回一个 channel，Router 就绪后关闭
func (c *Client) Running() chan struct{} {
	return c.Router.Running()
}
