package view

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"campus-connect/app/event/model"
	"campus-connect/common/errorx"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page 一页结果
type Page struct {
	Items      []model.Event
	NextCursor string
	HasMore    bool
}

// cursor 上一页最后一条的位置：排序方式 + 排序键 + ID
type cursor struct {
	sort  SortKey
	value int64
	id    string
}

// EncodeCursor 以 e 为上一页最后一条生成游标
func EncodeCursor(e model.Event, key SortKey) string {
	raw := fmt.Sprintf("%s:%d:%s", key, sortValue(e, key), e.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(s string) (cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return cursor{}, errorx.ErrInvalidParams("无效的游标")
	}
	parts := strings.SplitN(string(raw), ":", 3)
	if len(parts) != 3 {
		return cursor{}, errorx.ErrInvalidParams("无效的游标")
	}
	v, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return cursor{}, errorx.ErrInvalidParams("无效的游标")
	}
	return cursor{sort: SortKey(parts[0]), value: v, id: parts[2]}, nil
}

// Paginate 在已排序的结果上取游标之后的一页；cursor 为空表示第一页
func Paginate(sorted []model.Event, key SortKey, after string, size int) (Page, error) {
	size = clampPageSize(size)

	start := 0
	if after != "" {
		c, err := decodeCursor(after)
		if err != nil {
			return Page{}, err
		}
		if c.sort != key {
			return Page{}, errorx.ErrInvalidParams("游标与排序方式不匹配")
		}
		// 游标指向的活动即使已被删除或改变了位置，也从它原来的位置之后继续
		start = sort.Search(len(sorted), func(i int) bool {
			v := sortValue(sorted[i], key)
			return v > c.value || (v == c.value && sorted[i].ID > c.id)
		})
	}

	end := start + size
	if end > len(sorted) {
		end = len(sorted)
	}
	page := Page{Items: append([]model.Event(nil), sorted[start:end]...)}
	if end < len(sorted) && end > start {
		page.HasMore = true
		page.NextCursor = EncodeCursor(sorted[end-1], key)
	}
	if page.Items == nil {
		page.Items = []model.Event{}
	}
	return page, nil
}

func clampPageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}
