// Package cache 活动相关的 Redis 缓存：热门活动 Top N、浏览去重
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"campus-connect/app/event/model"
	"campus-connect/app/event/view"
	commonCache "campus-connect/common/cache"

	"github.com/zeromicro/go-zero/core/logx"
	"golang.org/x/sync/singleflight"
)

const (
	// cacheSize 缓存 Top20，请求时裁剪
	cacheSize    = 20
	defaultLimit = 10
)

// KV 用到的 Redis 命令，*redis.Redis 满足该接口
type KV interface {
	GetCtx(ctx context.Context, key string) (string, error)
	SetexCtx(ctx context.Context, key, value string, seconds int) error
	DelCtx(ctx context.Context, keys ...string) (int, error)
	SetnxExCtx(ctx context.Context, key, value string, seconds int) (bool, error)
}

// Loader 读取当前公开活动
type Loader func(ctx context.Context) ([]model.Event, error)

// ==================== TrendingCache 热门活动缓存 ====================
//
// 缓存策略：
//   - Key: event:trending:top20
//   - TTL: 5min ± 10%
//   - 失效时机: 收到互动消息时主动删除，或 TTL 过期

// TrendingItem 热门活动列表项，只缓存列表展示需要的字段
type TrendingItem struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	ImageURL         string    `json:"imageUrl,omitempty"`
	Category         string    `json:"category"`
	Venue            string    `json:"venue"`
	EventDate        time.Time `json:"eventDate"`
	OrganizerName    string    `json:"organizerName"`
	CurrentAttendees int       `json:"currentAttendees"`
	MaxAttendees     int       `json:"maxAttendees"`
	LikeCount        int       `json:"likeCount"`
	ShareCount       int       `json:"shareCount"`
	Score            int       `json:"score"`
}

// TrendingCache 热门活动缓存
type TrendingCache struct {
	kv      KV
	load    Loader
	now     func() time.Time
	sfGroup singleflight.Group
}

// NewTrendingCache 创建热门活动缓存；kv 为 nil 时每次实时计算
func NewTrendingCache(kv KV, load Loader) *TrendingCache {
	return &TrendingCache{kv: kv, load: load, now: time.Now}
}

// TopN 按热度分取即将开始的公开活动
func (c *TrendingCache) TopN(ctx context.Context, limit int) ([]TrendingItem, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > cacheSize {
		limit = cacheSize
	}
	key := commonCache.TrendingEventsKey(cacheSize)

	if c.kv != nil {
		val, err := c.kv.GetCtx(ctx, key)
		switch {
		case err != nil:
			logx.WithContext(ctx).Errorf("[TrendingCache] Redis 错误，降级实时计算: err=%v", err)
			items, err := c.compute(ctx)
			return truncate(items, limit), err
		case val != "":
			var items []TrendingItem
			if err := json.Unmarshal([]byte(val), &items); err == nil {
				return truncate(items, limit), nil
			}
			logx.WithContext(ctx).Errorf("[TrendingCache] 反序列化失败: err=%v", err)
			_, _ = c.kv.DelCtx(ctx, key)
		}
	}

	result, err, _ := c.sfGroup.Do(key, func() (interface{}, error) {
		return c.computeAndCache(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return truncate(result.([]TrendingItem), limit), nil
}

// Invalidate 删除缓存
func (c *TrendingCache) Invalidate(ctx context.Context) error {
	if c.kv == nil {
		return nil
	}
	if _, err := c.kv.DelCtx(ctx, commonCache.TrendingEventsKey(cacheSize)); err != nil {
		logx.WithContext(ctx).Errorf("[TrendingCache] 删除缓存失败: err=%v", err)
		return err
	}
	return nil
}

func (c *TrendingCache) computeAndCache(ctx context.Context, key string) ([]TrendingItem, error) {
	items, err := c.compute(ctx)
	if err != nil || c.kv == nil {
		return items, err
	}

	data, err := json.Marshal(items)
	if err != nil {
		logx.WithContext(ctx).Errorf("[TrendingCache] 序列化失败: err=%v", err)
		return items, nil
	}
	if err := c.kv.SetexCtx(ctx, key, string(data), commonCache.RandomTTLSeconds(commonCache.DefaultTTL)); err != nil {
		logx.WithContext(ctx).Errorf("[TrendingCache] 写入缓存失败: err=%v", err)
	}
	return items, nil
}

func (c *TrendingCache) compute(ctx context.Context) ([]TrendingItem, error) {
	events, err := c.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}

	ranked := view.Apply(events, view.Query{Filter: view.FilterUpcoming, Sort: view.SortTrending, Now: c.now()})
	ranked = ranked[:min(len(ranked), cacheSize)]

	items := make([]TrendingItem, len(ranked))
	for i, e := range ranked {
		items[i] = TrendingItem{
			ID:               e.ID,
			Title:            e.Title,
			ImageURL:         e.ImageURL,
			Category:         e.Category,
			Venue:            e.Venue,
			EventDate:        e.EventDate,
			OrganizerName:    e.Organizer.Name,
			CurrentAttendees: e.CurrentAttendees,
			MaxAttendees:     e.MaxAttendees,
			LikeCount:        len(e.Likes),
			ShareCount:       e.ShareCount,
			Score:            view.TrendingScore(e),
		}
	}
	return items, nil
}

func truncate(items []TrendingItem, limit int) []TrendingItem {
	if items == nil {
		return []TrendingItem{}
	}
	if limit < len(items) {
		return items[:limit]
	}
	return items
}
