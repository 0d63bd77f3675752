// Package view 活动列表的派生视图：搜索、筛选、排序、游标分页
//
// 所有函数都是纯函数：输入为活动集合的快照，返回新切片，从不修改输入。
package view

import (
	"sort"
	"strings"
	"time"

	"campus-connect/app/event/model"
	"campus-connect/common/errorx"
)

// Filter 标志筛选
type Filter string

const (
	FilterAll      Filter = "all"
	FilterTrending Filter = "trending"
	FilterUpcoming Filter = "upcoming"
	FilterFeatured Filter = "featured"
	FilterSaved    Filter = "saved"
)

// SortKey 排序方式
type SortKey string

const (
	SortDate       SortKey = "date"       // 活动时间升序
	SortPopularity SortKey = "popularity" // 报名数+点赞数 降序
	SortTrending   SortKey = "trending"   // 2×报名数+点赞数+分享数 降序
	SortRecent     SortKey = "recent"     // 创建时间降序
	SortSaves      SortKey = "saves"      // 收藏数降序
)

// CategoryAll 不限分类
const CategoryAll = "all"

// Query 视图参数
type Query struct {
	Search   string
	Category string
	Filter   Filter
	Sort     SortKey
	Viewer   string    // 访问者，用于个人状态和 saved 筛选
	Now      time.Time // upcoming 的参照时间
}

// Normalize 填充默认值并校验
func (q Query) Normalize() (Query, error) {
	q.Search = strings.TrimSpace(q.Search)
	if q.Filter == "" {
		q.Filter = FilterAll
	}
	if q.Sort == "" {
		q.Sort = SortDate
	}
	if q.Now.IsZero() {
		q.Now = time.Now()
	}

	switch q.Filter {
	case FilterAll, FilterTrending, FilterUpcoming, FilterFeatured, FilterSaved:
	default:
		return q, errorx.ErrInvalidParams("无效的筛选条件")
	}
	switch q.Sort {
	case SortDate, SortPopularity, SortTrending, SortRecent, SortSaves:
	default:
		return q, errorx.ErrInvalidParams("无效的排序方式")
	}
	return q, nil
}

// Apply 筛选并排序，返回带访问者状态的新切片
func Apply(events []model.Event, q Query) []model.Event {
	needle := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if !matchSearch(e, needle) || !matchCategory(e, q.Category) || !matchFilter(e, q) {
			continue
		}
		out = append(out, e.ForViewer(q.Viewer))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j], q.Sort)
	})
	return out
}

func matchSearch(e model.Event, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(e.Title), needle) ||
		strings.Contains(strings.ToLower(e.Description), needle) ||
		strings.Contains(strings.ToLower(e.Venue), needle) {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func matchCategory(e model.Event, category string) bool {
	return category == "" || category == CategoryAll || e.Category == category
}

func matchFilter(e model.Event, q Query) bool {
	switch q.Filter {
	case FilterTrending:
		return e.Trending
	case FilterUpcoming:
		return e.IsUpcoming(q.Now)
	case FilterFeatured:
		return e.Featured
	case FilterSaved:
		return q.Viewer != "" && model.Contains(e.Saves, q.Viewer)
	}
	return true
}

// TrendingScore 热度分：2×报名数 + 点赞数 + 分享数
func TrendingScore(e model.Event) int {
	return 2*len(e.RSVP) + len(e.Likes) + e.ShareCount
}

// sortValue 把排序方式映射为升序整数键
func sortValue(e model.Event, key SortKey) int64 {
	switch key {
	case SortPopularity:
		return -int64(len(e.RSVP) + len(e.Likes))
	case SortTrending:
		return -int64(TrendingScore(e))
	case SortRecent:
		return -e.CreatedAt.UnixNano()
	case SortSaves:
		return -int64(len(e.Saves))
	default:
		return e.EventDate.UnixNano()
	}
}

// less 排序键相同按ID升序，保证分页游标稳定
func less(a, b model.Event, key SortKey) bool {
	va, vb := sortValue(a, key), sortValue(b, key)
	if va != vb {
		return va < vb
	}
	return a.ID < b.ID
}
