package messaging

import "time"

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Config 消息中间件配置
type Config struct {
	// Driver redis 使用 Redis Streams，memory 使用进程内 gochannel（本地开发/测试）
	Driver string `json:",default=memory,options=memory|redis"`

	// ServiceName 同时作为 Redis Streams 消费组名
	ServiceName string `json:",default=campus-connect"`

	Redis RedisConfig `json:",optional"`

	// PoisonTopic 重试耗尽的消息转投到该主题，为空则不转投
	PoisonTopic string `json:",optional"`

	// 重试配置
	MaxRetries      int           `json:",default=3"`
	InitialInterval time.Duration `json:",default=100ms"`
	MaxInterval     time.Duration `json:",default=10s"`
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Addr     string `json:",default=localhost:6379"`
	Password string `json:",optional"`
	DB       int    `json:",default=0"`
}

// DefaultConfig 返回默认配置（进程内驱动）
func DefaultConfig() Config {
	return Config{
		Driver:          DriverMemory,
		ServiceName:     "campus-connect",
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     10 * time.Second,
	}
}
