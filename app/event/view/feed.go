package view

import (
	"time"

	"campus-connect/app/event/model"
)

// Feed 增量加载的列表窗口
//
// FetchMore 只在已加载列表末尾追加；源集合或查询变化时调用 Recompute，
// 查询不变则按新数据重算已加载的条数，查询变化则回到第一页。
type Feed struct {
	query    Query
	pageSize int
	items    []model.Event
	cursor   string
	hasMore  bool
	started  bool
}

// NewFeed 创建列表窗口，q 需已 Normalize
func NewFeed(q Query, pageSize int) *Feed {
	return &Feed{query: q, pageSize: clampPageSize(pageSize)}
}

// Query 当前查询
func (f *Feed) Query() Query { return f.query }

// Items 已加载的活动（副本）
func (f *Feed) Items() []model.Event {
	return append([]model.Event{}, f.items...)
}

// HasMore 是否还有下一页
func (f *Feed) HasMore() bool { return f.hasMore }

// FetchMore 追加下一页，返回新追加的部分
func (f *Feed) FetchMore(source []model.Event) ([]model.Event, error) {
	if f.started && !f.hasMore {
		return []model.Event{}, nil
	}

	page, err := Paginate(Apply(source, f.query), f.query.Sort, f.cursor, f.pageSize)
	if err != nil {
		return nil, err
	}
	f.started = true
	f.items = append(f.items, page.Items...)
	f.cursor = page.NextCursor
	f.hasMore = page.HasMore
	return page.Items, nil
}

// Recompute 源集合或查询变化后重算窗口
func (f *Feed) Recompute(source []model.Event, q Query) {
	window := len(f.items)
	if !sameQuery(q, f.query) || window < f.pageSize {
		window = f.pageSize
	}
	f.query = q

	sorted := Apply(source, q)
	if window > len(sorted) {
		window = len(sorted)
	}
	f.items = append([]model.Event{}, sorted[:window]...)
	f.started = true
	f.hasMore = window < len(sorted)
	f.cursor = ""
	if f.hasMore && window > 0 {
		f.cursor = EncodeCursor(f.items[window-1], q.Sort)
	}
}

// sameQuery 忽略参照时间比较查询
func sameQuery(a, b Query) bool {
	a.Now, b.Now = time.Time{}, time.Time{}
	return a == b
}
