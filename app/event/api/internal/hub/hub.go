// Package hub 活动列表的 WebSocket 推送
//
// 每个连接持有一个 view.Feed；镜像每次变化都按连接当前的查询重算已加载窗口后整体推送，
// 客户端发送 fetchMore 追加下一页，发送 query 切换搜索/筛选/排序。
package hub

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"campus-connect/app/event/repo"

	"github.com/gorilla/websocket"
	"github.com/zeromicro/go-zero/core/logx"
)

// ErrClosed Hub 已停止
var ErrClosed = errors.New("hub closed")

// Source 镜像数据源，*repo.Repository 满足该接口
type Source interface {
	State() repo.State
	Subscribe() (<-chan repo.State, func())
}

// Hub 连接管理中心
type Hub struct {
	source   Source
	pageSize int
	now      func() time.Time
	upgrader websocket.Upgrader

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewHub 创建 Hub
func NewHub(source Source, pageSize int) *Hub {
	return &Hub{
		source:   source,
		pageSize: pageSize,
		now:      time.Now,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// 跨域由 REST 层的 CORS 配置控制
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
	}
}

// Run 运行 Hub，阻塞到 ctx 结束
func (h *Hub) Run(ctx context.Context) {
	states, cancel := h.source.Subscribe()
	defer cancel()
	defer close(h.done)

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			c.refresh(h.source.State())

		case c := <-h.unregister:
			h.removeClient(c)

		case st, ok := <-states:
			if !ok {
				h.closeAll()
				return
			}
			h.mu.RLock()
			for c := range h.clients {
				c.refresh(st)
			}
			h.mu.RUnlock()

		case <-ctx.Done():
			logx.Info("[Hub] 正在关闭")
			h.closeAll()
			return
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
}

// OnlineCount 当前连接数
func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve 升级连接并启动读写协程；viewer 为空表示匿名访问
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, viewer string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := newClient(h, conn, viewer)
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return ErrClosed
	}
	go c.writePump()
	go c.readPump()
	return nil
}
