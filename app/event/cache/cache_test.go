package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"campus-connect/app/event/model"
)

type fakeKV struct {
	mu      sync.Mutex
	data    map[string]string
	err     error
	sets    int
	deletes int
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}}
}

func (f *fakeKV) GetCtx(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.data[key], nil
}

func (f *fakeKV) SetexCtx(_ context.Context, key, value string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sets++
	f.data[key] = value
	return nil
}

func (f *fakeKV) DelCtx(_ context.Context, keys ...string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	n := 0
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	f.deletes++
	return n, nil
}

func (f *fakeKV) SetnxExCtx(_ context.Context, key, value string, _ int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key] = value
	return true, nil
}

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func events() []model.Event {
	users := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("u%d", i)
		}
		return out
	}
	return []model.Event{
		{ID: "a", Title: "A", EventDate: now.Add(time.Hour), RSVP: users(3), Likes: users(1)},
		{ID: "b", Title: "B", EventDate: now.Add(time.Hour), RSVP: users(1), Likes: users(5)},
		{ID: "past", Title: "Past", EventDate: now.Add(-time.Hour), RSVP: users(50)},
	}
}

func newTrending(kv KV, loads *int) *TrendingCache {
	c := NewTrendingCache(kv, func(context.Context) ([]model.Event, error) {
		*loads++
		return events(), nil
	})
	c.now = func() time.Time { return now }
	return c
}

func TestTrendingTopN(t *testing.T) {
	kv := newFakeKV()
	loads := 0
	c := newTrending(kv, &loads)
	ctx := context.Background()

	items, err := c.TopN(ctx, 0)
	if err != nil {
		t.Fatalf("TopN: %v", err)
	}
	if len(items) != 2 || items[0].ID != "a" || items[0].Score != 7 || items[1].Score != 6 {
		t.Fatalf("unexpected items %+v", items)
	}

	// 第二次命中缓存
	if _, err := c.TopN(ctx, 1); err != nil {
		t.Fatalf("TopN: %v", err)
	}
	if loads != 1 || kv.sets != 1 {
		t.Fatalf("loads=%d sets=%d, want 1/1", loads, kv.sets)
	}

	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	one, _ := c.TopN(ctx, 1)
	if loads != 2 || len(one) != 1 {
		t.Fatalf("loads=%d items=%d after invalidate", loads, len(one))
	}
}

func TestTrendingDegradesOnRedisError(t *testing.T) {
	kv := newFakeKV()
	kv.err = errors.New("redis down")
	loads := 0
	c := newTrending(kv, &loads)

	items, err := c.TopN(context.Background(), 5)
	if err != nil || len(items) != 2 {
		t.Fatalf("TopN = %v, %v", items, err)
	}
	if err := c.Invalidate(context.Background()); err == nil {
		t.Fatal("Invalidate should report the redis error")
	}
}

func TestTrendingWithoutRedis(t *testing.T) {
	loads := 0
	c := newTrending(nil, &loads)

	for i := 0; i < 2; i++ {
		if _, err := c.TopN(context.Background(), 5); err != nil {
			t.Fatalf("TopN: %v", err)
		}
	}
	if loads != 2 {
		t.Fatalf("loads = %d, want 2", loads)
	}
	if err := c.Invalidate(context.Background()); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
}

func TestTrendingCorruptEntry(t *testing.T) {
	kv := newFakeKV()
	kv.data["event:trending:top20"] = "{not json"
	loads := 0
	c := newTrending(kv, &loads)

	items, err := c.TopN(context.Background(), 5)
	if err != nil || len(items) != 2 || loads != 1 {
		t.Fatalf("TopN = %v, %v (loads=%d)", items, err, loads)
	}
}

func TestTrendingLoadError(t *testing.T) {
	c := NewTrendingCache(newFakeKV(), func(context.Context) ([]model.Event, error) {
		return nil, errors.New("not ready")
	})
	if _, err := c.TopN(context.Background(), 5); err == nil {
		t.Fatal("load error should be returned")
	}
}

func TestViewDeduper(t *testing.T) {
	ctx := context.Background()
	d := NewViewDeduper(newFakeKV())

	if !d.First(ctx, "e1", "u1") {
		t.Fatal("first view should count")
	}
	if d.First(ctx, "e1", "u1") {
		t.Fatal("repeat view should not count")
	}
	if !d.First(ctx, "e1", "u2") || !d.First(ctx, "e2", "u1") {
		t.Fatal("other viewer or event should count")
	}
	if !d.First(ctx, "e1", "") {
		t.Fatal("anonymous views always count")
	}

	broken := newFakeKV()
	broken.err = errors.New("redis down")
	if !NewViewDeduper(broken).First(ctx, "e1", "u1") {
		t.Fatal("redis errors should not drop views")
	}
	if !NewViewDeduper(nil).First(ctx, "e1", "u1") {
		t.Fatal("nil kv should count every view")
	}
}
