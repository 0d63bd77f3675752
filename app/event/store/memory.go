package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ==================== MemoryStore 进程内文档存储 ====================
//
// 文档以 bson.M 保存，读写都经过 bson 编解码，字段名与 MongoDB 完全一致，
// 用于本地开发（Store.Driver=memory）与单元测试。

// MemoryStore 内存文档存储
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]bson.M
	watchers    map[string]map[int]chan struct{}
	nextWatcher int
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]bson.M),
		watchers:    make(map[string]map[int]chan struct{}),
	}
}

// MemoryCollection 内存集合
type MemoryCollection[T any] struct {
	s    *MemoryStore
	name string
}

// NewMemoryCollection 获取（或创建）名为 name 的集合
func NewMemoryCollection[T any](s *MemoryStore, name string) *MemoryCollection[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[name]; !ok {
		s.collections[name] = make(map[string]bson.M)
	}
	return &MemoryCollection[T]{s: s, name: name}
}

// Commit 在同一把锁内执行全部删除
func (s *MemoryStore) Commit(ctx context.Context, b *Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	for _, op := range b.ops {
		if _, ok := s.collections[op.collection]; !ok {
			s.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrUnknownCollect, op.collection)
		}
	}
	touched := map[string]bool{}
	for _, op := range b.ops {
		docs := s.collections[op.collection]
		if op.where == nil {
			delete(docs, op.id)
			touched[op.collection] = true
			continue
		}
		want, err := normalize(op.where.Value)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		for id, doc := range docs {
			if reflect.DeepEqual(doc[op.where.Field], want) {
				delete(docs, id)
				touched[op.collection] = true
			}
		}
	}
	s.mu.Unlock()

	for name := range touched {
		s.notify(name)
	}
	return nil
}

// notify 通知该集合的所有订阅者
func (s *MemoryStore) notify(name string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.watchers[name] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *MemoryStore) watch(name string) (int, chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watchers[name] == nil {
		s.watchers[name] = make(map[int]chan struct{})
	}
	s.nextWatcher++
	ch := make(chan struct{}, 1)
	s.watchers[name][s.nextWatcher] = ch
	return s.nextWatcher, ch
}

func (s *MemoryStore) unwatch(name string, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watchers[name], id)
}

// Get 按ID读取
func (c *MemoryCollection[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	if err := ctx.Err(); err != nil {
		return out, err
	}

	c.s.mu.RLock()
	doc, ok := c.s.collections[c.name][id]
	if !ok {
		c.s.mu.RUnlock()
		return out, ErrNotFound
	}
	raw, err := bson.Marshal(doc)
	c.s.mu.RUnlock()
	if err != nil {
		return out, err
	}

	err = bson.Unmarshal(raw, &out)
	return out, err
}

// Find 按查询读取
func (c *MemoryCollection[T]) Find(ctx context.Context, q Query) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conds := make([]Cond, len(q.Where))
	for i, cond := range q.Where {
		v, err := normalize(cond.Value)
		if err != nil {
			return nil, err
		}
		conds[i] = Cond{Field: cond.Field, Value: v}
	}

	c.s.mu.RLock()
	matched := make([]bson.M, 0)
	for _, doc := range c.s.collections[c.name] {
		if matchAll(doc, conds) {
			matched = append(matched, doc)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if q.OrderBy != "" {
			if cmp := compareValues(matched[i][q.OrderBy], matched[j][q.OrderBy]); cmp != 0 {
				if q.Desc {
					return cmp > 0
				}
				return cmp < 0
			}
		}
		return compareValues(matched[i]["_id"], matched[j]["_id"]) < 0
	})
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	raws := make([][]byte, 0, len(matched))
	for _, doc := range matched {
		raw, err := bson.Marshal(doc)
		if err != nil {
			c.s.mu.RUnlock()
			return nil, err
		}
		raws = append(raws, raw)
	}
	c.s.mu.RUnlock()

	items := make([]T, 0, len(raws))
	for _, raw := range raws {
		var item T
		if err := bson.Unmarshal(raw, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Insert 写入新文档，未指定 _id 时生成 UUID
func (c *MemoryCollection[T]) Insert(ctx context.Context, doc T) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m, err := toDocument(doc)
	if err != nil {
		return "", err
	}
	id, _ := m["_id"].(string)
	if id == "" {
		id = uuid.NewString()
		m["_id"] = id
	}

	c.s.mu.Lock()
	if _, exists := c.s.collections[c.name][id]; exists {
		c.s.mu.Unlock()
		return "", fmt.Errorf("duplicate id %s in %s", id, c.name)
	}
	c.s.collections[c.name][id] = m
	c.s.mu.Unlock()

	c.s.notify(c.name)
	return id, nil
}

// Update 校验 Guards 后应用全部修改
func (c *MemoryCollection[T]) Update(ctx context.Context, id string, m Mutation) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	c.s.mu.Lock()
	doc, ok := c.s.collections[c.name][id]
	if !ok {
		c.s.mu.Unlock()
		return false, nil
	}

	for _, g := range m.Guards {
		holds, err := guardHolds(doc, g)
		if err != nil {
			c.s.mu.Unlock()
			return false, err
		}
		if !holds {
			c.s.mu.Unlock()
			return false, nil
		}
	}

	next, err := applyMutation(doc, m)
	if err != nil {
		c.s.mu.Unlock()
		return false, err
	}
	c.s.collections[c.name][id] = next
	c.s.mu.Unlock()

	c.s.notify(c.name)
	return true, nil
}

// Delete 删除文档
func (c *MemoryCollection[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.s.mu.Lock()
	if _, ok := c.s.collections[c.name][id]; !ok {
		c.s.mu.Unlock()
		return ErrNotFound
	}
	delete(c.s.collections[c.name], id)
	c.s.mu.Unlock()

	c.s.notify(c.name)
	return nil
}

// Subscribe 订阅查询结果
func (c *MemoryCollection[T]) Subscribe(ctx context.Context, q Query) (<-chan Snapshot[T], error) {
	watchID, signal := c.s.watch(c.name)
	out := make(chan Snapshot[T], 1)

	go func() {
		defer close(out)
		defer c.s.unwatch(c.name, watchID)

		for {
			items, err := c.Find(ctx, q)
			if ctx.Err() != nil {
				return
			}
			offer(out, Snapshot[T]{Items: items, Err: err})

			select {
			case <-ctx.Done():
				return
			case <-signal:
			}
		}
	}()
	return out, nil
}

// ==================== bson.M 操作 ====================

// toDocument 任意文档编码为 bson.M
func toDocument(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// normalize 把 Go 值转换为 bson 解码后的表示，便于与已存文档比较
func normalize(v any) (any, error) {
	m, err := toDocument(bson.M{"v": v})
	if err != nil {
		return nil, err
	}
	return m["v"], nil
}

func matchAll(doc bson.M, conds []Cond) bool {
	for _, c := range conds {
		if !reflect.DeepEqual(doc[c.Field], c.Value) {
			return false
		}
	}
	return true
}

func guardHolds(doc bson.M, g Guard) (bool, error) {
	arr := asArray(doc[g.Field])
	switch g.Kind {
	case GuardAbsent, GuardPresent:
		v, err := normalize(g.Value)
		if err != nil {
			return false, err
		}
		found := containsValue(arr, v)
		if g.Kind == GuardAbsent {
			return !found, nil
		}
		return found, nil
	case GuardLenBelow:
		return len(arr) < g.N, nil
	default:
		return false, fmt.Errorf("unknown guard kind %d", g.Kind)
	}
}

// applyMutation 在副本上应用修改，出错时原文档不变
func applyMutation(doc bson.M, m Mutation) (bson.M, error) {
	next := make(bson.M, len(doc))
	for k, v := range doc {
		next[k] = v
	}

	for field, v := range m.AddToSet {
		nv, err := normalize(v)
		if err != nil {
			return nil, err
		}
		arr := asArray(next[field])
		if !containsValue(arr, nv) {
			arr = append(append(primitive.A{}, arr...), nv)
		}
		next[field] = arr
	}
	for field, v := range m.Pull {
		nv, err := normalize(v)
		if err != nil {
			return nil, err
		}
		kept := primitive.A{}
		for _, item := range asArray(next[field]) {
			if !reflect.DeepEqual(item, nv) {
				kept = append(kept, item)
			}
		}
		next[field] = kept
	}
	for field, v := range m.Push {
		nv, err := normalize(v)
		if err != nil {
			return nil, err
		}
		next[field] = append(append(primitive.A{}, asArray(next[field])...), nv)
	}
	for field, delta := range m.Inc {
		n, err := toInt64(next[field])
		if err != nil {
			return nil, fmt.Errorf("cannot $inc field %s: %w", field, err)
		}
		next[field] = n + int64(delta)
	}
	for field, v := range m.Set {
		nv, err := normalize(v)
		if err != nil {
			return nil, err
		}
		next[field] = nv
	}
	return next, nil
}

func asArray(v any) primitive.A {
	switch arr := v.(type) {
	case primitive.A:
		return arr
	case []any:
		return arr
	default:
		return primitive.A{}
	}
}

func containsValue(arr primitive.A, v any) bool {
	for _, item := range arr {
		if reflect.DeepEqual(item, v) {
			return true
		}
	}
	return false
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("non-numeric value %T", v)
	}
}

// compareValues 排序比较，支持时间、数字、字符串、布尔
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	switch x := a.(type) {
	case primitive.DateTime:
		if y, ok := b.(primitive.DateTime); ok {
			return cmpOrdered(int64(x), int64(y))
		}
	case string:
		if y, ok := b.(string); ok {
			return cmpOrdered(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			return cmpOrdered(boolInt(x), boolInt(y))
		}
	}

	if x, err := toInt64(a); err == nil {
		if y, err := toInt64(b); err == nil {
			return cmpOrdered(x, y)
		}
	}
	return cmpOrdered(fmt.Sprint(a), fmt.Sprint(b))
}

func cmpOrdered[T int64 | string | int](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
