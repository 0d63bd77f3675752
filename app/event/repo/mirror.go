package repo

import (
	"sync"

	"campus-connect/app/event/model"
)

// State 本地镜像的一次只读快照
type State struct {
	Events  []model.Event `json:"events"`
	Loading bool          `json:"loading"`
	Error   string        `json:"error,omitempty"`
	Version uint64        `json:"version"`
}

// Mirror 活动集合的响应式本地镜像
//
// 只有 Repository 能写：订阅快照整体覆盖（replace），操作成功后的乐观更新（patch）。
// 乐观更新会被下一次快照直接覆盖，从不合并。
type Mirror struct {
	mu     sync.RWMutex
	state  State
	subs   map[int]chan State
	nextID int
}

// NewMirror 创建镜像，初始为加载中
func NewMirror() *Mirror {
	return &Mirror{
		state: State{Events: []model.Event{}, Loading: true},
		subs:  make(map[int]chan State),
	}
}

// Snapshot 当前状态（切片为副本）
func (m *Mirror) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.copyLocked()
}

// Find 按ID查找镜像中的活动
func (m *Mirror) Find(id string) (model.Event, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.state.Events {
		if e.ID == id {
			return e, true
		}
	}
	return model.Event{}, false
}

// Subscribe 订阅状态变化，立即收到当前状态；消费慢时只保留最新状态。
// 返回的 cancel 用于退订并关闭 channel。
func (m *Mirror) Subscribe() (<-chan State, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	ch := make(chan State, 1)
	ch <- m.copyLocked()
	m.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// replace 用存储快照整体覆盖
func (m *Mirror) replace(events []model.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]model.Event, len(events))
	copy(next, events)
	m.state.Events = next
	m.state.Loading = false
	m.state.Error = ""
	m.state.Version++
	m.broadcastLocked()
}

// fail 订阅出错，保留已有数据
func (m *Mirror) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Loading = false
	m.state.Error = err.Error()
	m.state.Version++
	m.broadcastLocked()
}

// patch 对单个活动做乐观更新；镜像中不存在时忽略
func (m *Mirror) patch(id string, fn func(e *model.Event)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.state.Events {
		if m.state.Events[i].ID != id {
			continue
		}
		next := make([]model.Event, len(m.state.Events))
		copy(next, m.state.Events)
		e := next[i].Clone()
		fn(&e)
		next[i] = e
		m.state.Events = next
		m.state.Version++
		m.broadcastLocked()
		return true
	}
	return false
}

// insert 乐观插入新活动
func (m *Mirror) insert(e model.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.state.Events {
		if existing.ID == e.ID {
			return
		}
	}
	next := make([]model.Event, 0, len(m.state.Events)+1)
	next = append(next, m.state.Events...)
	next = append(next, e)
	m.state.Events = next
	m.state.Version++
	m.broadcastLocked()
}

// remove 乐观删除
func (m *Mirror) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]model.Event, 0, len(m.state.Events))
	for _, e := range m.state.Events {
		if e.ID != id {
			next = append(next, e)
		}
	}
	if len(next) == len(m.state.Events) {
		return
	}
	m.state.Events = next
	m.state.Version++
	m.broadcastLocked()
}

func (m *Mirror) copyLocked() State {
	s := m.state
	s.Events = make([]model.Event, len(m.state.Events))
	copy(s.Events, m.state.Events)
	return s
}

// broadcastLocked 最新优先投递给所有订阅者
func (m *Mirror) broadcastLocked() {
	for _, ch := range m.subs {
		s := m.copyLocked()
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}
