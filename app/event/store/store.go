// Package store 文档存储适配层
//
// 对上层只暴露集合级的读、订阅、字段级原子写（$addToSet/$pull/$inc/$push/$set）
// 以及批量删除，具体实现有 MongoDB 与进程内内存两种。
package store

import (
	"context"
	"errors"
)

// ==================== 错误定义 ====================

var (
	ErrNotFound       = errors.New("document not found")
	ErrUnknownCollect = errors.New("unknown collection")
)

// ==================== 查询 ====================

// Cond 等值条件
type Cond struct {
	Field string
	Value any
}

// Query 集合查询：等值过滤 + 单字段排序 + 条数限制
type Query struct {
	Where   []Cond
	OrderBy string
	Desc    bool
	Limit   int
}

// Where 构造只含等值条件的查询
func Where(field string, value any) Query {
	return Query{Where: []Cond{{Field: field, Value: value}}}
}

// Sort 追加排序
func (q Query) Sort(field string, desc bool) Query {
	q.OrderBy, q.Desc = field, desc
	return q
}

// Take 追加条数限制
func (q Query) Take(n int) Query {
	q.Limit = n
	return q
}

// ==================== 条件写 ====================

// GuardKind 写前条件类型
type GuardKind int

const (
	// GuardAbsent 集合字段不包含 Value
	GuardAbsent GuardKind = iota + 1
	// GuardPresent 集合字段包含 Value
	GuardPresent
	// GuardLenBelow 集合字段长度小于 N
	GuardLenBelow
)

// Guard 条件写的前置条件，不满足时 Update 返回 matched=false 且不做任何修改
type Guard struct {
	Kind  GuardKind
	Field string
	Value any
	N     int
}

func Absent(field string, v any) Guard  { return Guard{Kind: GuardAbsent, Field: field, Value: v} }
func Present(field string, v any) Guard { return Guard{Kind: GuardPresent, Field: field, Value: v} }
func LenBelow(field string, n int) Guard {
	return Guard{Kind: GuardLenBelow, Field: field, N: n}
}

// Mutation 一次原子更新，同一字段只能出现在一种操作里
type Mutation struct {
	AddToSet map[string]any
	Pull     map[string]any
	Inc      map[string]int
	Push     map[string]any
	Set      map[string]any
	Guards   []Guard
}

// Empty 是否不含任何修改
func (m Mutation) Empty() bool {
	return len(m.AddToSet) == 0 && len(m.Pull) == 0 && len(m.Inc) == 0 &&
		len(m.Push) == 0 && len(m.Set) == 0
}

// ==================== 订阅 ====================

// Snapshot 订阅推送的一次完整结果（按查询排序）
type Snapshot[T any] struct {
	Items []T
	Err   error
}

// ==================== 集合接口 ====================

// Collection 类型化集合
type Collection[T any] interface {
	// Get 按ID读取，不存在返回 ErrNotFound
	Get(ctx context.Context, id string) (T, error)
	// Find 按查询读取
	Find(ctx context.Context, q Query) ([]T, error)
	// Insert 写入新文档，ID 由存储分配并返回
	Insert(ctx context.Context, doc T) (string, error)
	// Update 原子更新；文档不存在或 Guards 不满足时 matched=false
	Update(ctx context.Context, id string, m Mutation) (matched bool, err error)
	// Delete 删除文档，不存在返回 ErrNotFound
	Delete(ctx context.Context, id string) error
	// Subscribe 先推送当前结果，之后每次集合变化推送最新结果；
	// 消费慢时只保留最新一次；ctx 结束后关闭 channel
	Subscribe(ctx context.Context, q Query) (<-chan Snapshot[T], error)
}

// ==================== 批量写 ====================

type batchOp struct {
	collection string
	id         string
	where      *Cond
}

// Batch 原子批量删除
type Batch struct {
	ops []batchOp
}

// NewBatch 创建批量操作
func NewBatch() *Batch {
	return &Batch{}
}

// Delete 按ID删除
func (b *Batch) Delete(collection, id string) *Batch {
	b.ops = append(b.ops, batchOp{collection: collection, id: id})
	return b
}

// DeleteWhere 按等值条件删除
func (b *Batch) DeleteWhere(collection string, c Cond) *Batch {
	b.ops = append(b.ops, batchOp{collection: collection, where: &c})
	return b
}

// Len 操作数
func (b *Batch) Len() int {
	return len(b.ops)
}

// Committer 提交批量写（全部成功或全部不生效）
type Committer interface {
	Commit(ctx context.Context, b *Batch) error
}

// offer 以“最新优先”方式投递：缓冲已满时丢弃旧值
func offer[T any](out chan Snapshot[T], s Snapshot[T]) {
	for {
		select {
		case out <- s:
			return
		default:
			select {
			case <-out:
			default:
			}
		}
	}
}
