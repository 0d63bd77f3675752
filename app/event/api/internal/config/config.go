package config

import (
	"campus-connect/app/event/assistant"
	"campus-connect/app/event/store"
	"campus-connect/common/messaging"

	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/rest"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config 活动服务配置
type Config struct {
	rest.RestConf

	// JWT 认证配置（令牌由外部认证服务签发）
	Auth AuthConfig

	// 文档存储
	Store StoreConfig

	// Redis 用于热门缓存、浏览去重与写接口限流，不配置则全部降级为进程内实现
	Redis redis.RedisConf `json:",optional"`

	// 消息中间件
	Messaging messaging.Config `json:",optional"`

	Events    EventsConfig
	Assistant assistant.Config `json:",optional"`

	// CORS 跨域配置
	Cors CorsConfig `json:",optional"`

	// 限流配置
	RateLimit RateLimitConfig `json:",optional"`
}

// AuthConfig JWT 认证配置
type AuthConfig struct {
	AccessSecret string `json:",env=AUTH_ACCESS_SECRET"`
	AccessExpire int64  `json:",default=86400"`
}

// StoreConfig 存储配置
type StoreConfig struct {
	Driver string          `json:",default=memory,options=mongo|memory"`
	Mongo  store.MongoConf `json:",optional"`
}

// EventsConfig 活动业务配置
type EventsConfig struct {
	// StrictCapacity 开启后容量条件随写入一起提交，并发报名不会超员
	StrictCapacity bool `json:",default=false"`
	PageSize       int  `json:",default=20"`
	TrendingLimit  int  `json:",default=10"`
}

// CorsConfig CORS 跨域配置
type CorsConfig struct {
	AllowOrigins []string `json:",optional"`
}

// RateLimitConfig 写接口限流配置，按用户（匿名按 IP）计
type RateLimitConfig struct {
	// Period 统计窗口（秒）
	Period int `json:",default=1"`
	// Quota 窗口内允许的写请求数，0 表示不限流
	Quota int `json:",default=10"`
}

// RedisEnabled 是否配置了 Redis
func (c Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}
