package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/breaker"
	"github.com/zeromicro/go-zero/core/logx"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ==================== MongoStore ====================

// MongoConf MongoDB 配置
type MongoConf struct {
	URI      string `json:",default=mongodb://localhost:27017"`
	Database string `json:",default=campus_connect"`
	// Timeout 单次调用超时
	Timeout time.Duration `json:",default=5s"`
	// PollInterval change stream 不可用（单节点部署）时的轮询间隔
	PollInterval time.Duration `json:",default=2s"`
	// Transactions 批量删除是否使用事务，需副本集
	Transactions bool `json:",default=true"`
}

// MongoStore MongoDB 文档存储，所有调用经过熔断器
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	conf   MongoConf
	brk    breaker.Breaker
}

// NewMongoStore 连接 MongoDB 并检查连通性
func NewMongoStore(ctx context.Context, conf MongoConf) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(conf.URI))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "connect mongo")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, pkgerrors.Wrap(err, "ping mongo")
	}

	return &MongoStore{
		client: client,
		db:     client.Database(conf.Database),
		conf:   conf,
		brk:    breaker.NewBreaker(breaker.WithName("mongo:" + conf.Database)),
	}, nil
}

// Close 断开连接
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes 创建查询所需索引
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		"events": {
			{Keys: bson.D{{Key: "isPublic", Value: 1}, {Key: "eventDate", Value: 1}}},
			{Keys: bson.D{{Key: "organizerId", Value: 1}}},
		},
		"activityLogs": {
			{Keys: bson.D{{Key: "eventId", Value: 1}, {Key: "timestamp", Value: -1}}},
			{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		},
		"clubs": {
			{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return pkgerrors.Wrapf(err, "create indexes on %s", name)
		}
	}
	return nil
}

// do 带超时与熔断执行一次调用；“未找到”不计入失败
func (s *MongoStore) do(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.brk.DoWithAcceptable(func() error {
		callCtx, cancel := context.WithTimeout(ctx, s.conf.Timeout)
		defer cancel()
		return fn(callCtx)
	}, acceptable)
}

func acceptable(err error) bool {
	return err == nil ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, mongo.ErrNoDocuments) ||
		errors.Is(err, context.Canceled)
}

// Commit 批量删除；Transactions=true 时在同一事务内提交
func (s *MongoStore) Commit(ctx context.Context, b *Batch) error {
	return s.do(ctx, func(ctx context.Context) error {
		if !s.conf.Transactions {
			return s.applyBatch(ctx, b)
		}

		sess, err := s.client.StartSession()
		if err != nil {
			return pkgerrors.Wrap(err, "start session")
		}
		defer sess.EndSession(ctx)

		_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			return nil, s.applyBatch(sc, b)
		})
		return pkgerrors.Wrap(err, "commit batch")
	})
}

func (s *MongoStore) applyBatch(ctx context.Context, b *Batch) error {
	for _, op := range b.ops {
		coll := s.db.Collection(op.collection)
		if op.where != nil {
			if _, err := coll.DeleteMany(ctx, bson.M{op.where.Field: op.where.Value}); err != nil {
				return pkgerrors.Wrapf(err, "delete from %s where %s", op.collection, op.where.Field)
			}
			continue
		}
		if _, err := coll.DeleteOne(ctx, bson.M{"_id": op.id}); err != nil {
			return pkgerrors.Wrapf(err, "delete %s/%s", op.collection, op.id)
		}
	}
	return nil
}

// MongoCollection MongoDB 集合
type MongoCollection[T any] struct {
	s    *MongoStore
	coll *mongo.Collection
	name string
}

// NewMongoCollection 获取集合
func NewMongoCollection[T any](s *MongoStore, name string) *MongoCollection[T] {
	return &MongoCollection[T]{s: s, coll: s.db.Collection(name), name: name}
}

// Get 按ID读取
func (c *MongoCollection[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := c.s.do(ctx, func(ctx context.Context) error {
		err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return pkgerrors.Wrapf(err, "get %s/%s", c.name, id)
	})
	return out, err
}

// Find 按查询读取
func (c *MongoCollection[T]) Find(ctx context.Context, q Query) ([]T, error) {
	items := make([]T, 0)
	err := c.s.do(ctx, func(ctx context.Context) error {
		opts := options.Find()
		if q.OrderBy != "" {
			dir := 1
			if q.Desc {
				dir = -1
			}
			opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}, {Key: "_id", Value: 1}})
		}
		if q.Limit > 0 {
			opts.SetLimit(int64(q.Limit))
		}

		cur, err := c.coll.Find(ctx, whereFilter(q.Where), opts)
		if err != nil {
			return pkgerrors.Wrapf(err, "find %s", c.name)
		}
		return pkgerrors.Wrapf(cur.All(ctx, &items), "decode %s", c.name)
	})
	return items, err
}

// Insert 写入新文档，未指定 _id 时使用 ObjectID 的十六进制串
func (c *MongoCollection[T]) Insert(ctx context.Context, doc T) (string, error) {
	m, err := toDocument(doc)
	if err != nil {
		return "", err
	}
	id, _ := m["_id"].(string)
	if id == "" {
		id = primitive.NewObjectID().Hex()
		m["_id"] = id
	}

	err = c.s.do(ctx, func(ctx context.Context) error {
		_, err := c.coll.InsertOne(ctx, m)
		return pkgerrors.Wrapf(err, "insert %s", c.name)
	})
	return id, err
}

// Update 条件原子更新
func (c *MongoCollection[T]) Update(ctx context.Context, id string, m Mutation) (bool, error) {
	filter := bson.M{"_id": id}
	if len(m.Guards) > 0 {
		and := make(bson.A, 0, len(m.Guards))
		for _, g := range m.Guards {
			and = append(and, guardFilter(g))
		}
		filter["$and"] = and
	}

	var matched bool
	err := c.s.do(ctx, func(ctx context.Context) error {
		if m.Empty() {
			n, err := c.coll.CountDocuments(ctx, filter)
			matched = n > 0
			return pkgerrors.Wrapf(err, "count %s/%s", c.name, id)
		}
		res, err := c.coll.UpdateOne(ctx, filter, updateDocument(m))
		if err != nil {
			return pkgerrors.Wrapf(err, "update %s/%s", c.name, id)
		}
		matched = res.MatchedCount > 0
		return nil
	})
	return matched, err
}

// Delete 删除文档
func (c *MongoCollection[T]) Delete(ctx context.Context, id string) error {
	return c.s.do(ctx, func(ctx context.Context) error {
		res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return pkgerrors.Wrapf(err, "delete %s/%s", c.name, id)
		}
		if res.DeletedCount == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Subscribe 基于 change stream 推送最新结果；不可用时退化为轮询
func (c *MongoCollection[T]) Subscribe(ctx context.Context, q Query) (<-chan Snapshot[T], error) {
	out := make(chan Snapshot[T], 1)

	stream, err := c.coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		logx.Infof("[MongoStore] change stream 不可用，改为轮询: collection=%s, err=%v", c.name, err)
		stream = nil
	}

	go func() {
		defer close(out)
		last := c.push(ctx, out, q, nil)

		if stream != nil {
			defer stream.Close(context.Background())
			for stream.Next(ctx) {
				// 合并已到达的变更，只重新查询一次
				for stream.RemainingBatchLength() > 0 {
					if !stream.Next(ctx) {
						break
					}
				}
				last = c.push(ctx, out, q, nil)
			}
			if ctx.Err() != nil {
				return
			}
			logx.Errorf("[MongoStore] change stream 中断，改为轮询: collection=%s, err=%v", c.name, stream.Err())
		}

		ticker := time.NewTicker(c.s.conf.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				last = c.push(ctx, out, q, last)
			}
		}
	}()
	return out, nil
}

// push 重新查询并投递；prev 非空时结果未变化则跳过，返回本次结果的编码
func (c *MongoCollection[T]) push(ctx context.Context, out chan Snapshot[T], q Query, prev []byte) []byte {
	items, err := c.Find(ctx, q)
	if ctx.Err() != nil {
		return prev
	}
	if err != nil {
		offer(out, Snapshot[T]{Err: err})
		return nil
	}

	encoded, encErr := bson.Marshal(bson.M{"items": items})
	if encErr == nil && prev != nil && bytes.Equal(encoded, prev) {
		return prev
	}
	offer(out, Snapshot[T]{Items: items})
	return encoded
}

// ==================== 过滤与更新文档 ====================

func whereFilter(conds []Cond) bson.M {
	filter := bson.M{}
	for _, c := range conds {
		filter[c.Field] = c.Value
	}
	return filter
}

func guardFilter(g Guard) bson.M {
	switch g.Kind {
	case GuardAbsent:
		return bson.M{g.Field: bson.M{"$ne": g.Value}}
	case GuardPresent:
		return bson.M{g.Field: g.Value}
	case GuardLenBelow:
		if g.N <= 0 {
			return bson.M{"_id": bson.M{"$exists": false}}
		}
		// 第 N 个元素不存在即长度 < N
		return bson.M{fmt.Sprintf("%s.%d", g.Field, g.N-1): bson.M{"$exists": false}}
	default:
		return bson.M{"_id": bson.M{"$exists": false}}
	}
}

func updateDocument(m Mutation) bson.M {
	update := bson.M{}
	if len(m.AddToSet) > 0 {
		update["$addToSet"] = bson.M(m.AddToSet)
	}
	if len(m.Pull) > 0 {
		update["$pull"] = bson.M(m.Pull)
	}
	if len(m.Push) > 0 {
		update["$push"] = bson.M(m.Push)
	}
	if len(m.Inc) > 0 {
		inc := bson.M{}
		for k, v := range m.Inc {
			inc[k] = v
		}
		update["$inc"] = inc
	}
	if len(m.Set) > 0 {
		update["$set"] = bson.M(m.Set)
	}
	return update
}
