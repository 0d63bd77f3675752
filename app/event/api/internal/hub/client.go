package hub

import (
	"encoding/json"
	"sync"
	"time"

	"campus-connect/app/event/model"
	"campus-connect/app/event/repo"
	"campus-connect/app/event/view"
	"campus-connect/common/errorx"

	"github.com/gorilla/websocket"
	"github.com/zeromicro/go-zero/core/logx"
)

const (
	// 写入超时时间
	writeWait = 10 * time.Second
	// 心跳超时时间
	pongWait = 60 * time.Second
	// Ping 间隔 (必须小于 pongWait)
	pingPeriod = (pongWait * 9) / 10
	// 最大消息大小
	maxMessageSize = 8 * 1024
)

// 消息类型
const (
	TypeQuery     = "query"
	TypeFetchMore = "fetchMore"
	TypePing      = "ping"
	TypePong      = "pong"
	TypeFeed      = "feed"
	TypeError     = "error"
)

// Message 上下行消息
type Message struct {
	Type      string          `json:"type"`
	Timestamp int64           `json:"timestamp,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// QueryData query 消息体
type QueryData struct {
	Q        string `json:"q"`
	Category string `json:"category"`
	Filter   string `json:"filter"`
	Sort     string `json:"sort"`
}

// FeedData feed 推送体
type FeedData struct {
	List    []model.Event `json:"list"`
	HasMore bool          `json:"hasMore"`
	Loading bool          `json:"loading"`
	Error   string        `json:"error,omitempty"`
	Version uint64        `json:"version"`
}

// ErrorData error 推送体
type ErrorData struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Client 一个 WebSocket 连接
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	viewer string

	// done 在注销时关闭；send 始终不关闭，读协程的回复不会写入已关闭的通道
	done      chan struct{}
	closeOnce sync.Once

	mu    sync.Mutex
	feed  *view.Feed
	state repo.State
}

func newClient(h *Hub, conn *websocket.Conn, viewer string) *Client {
	q := view.Query{
		Filter: view.FilterAll,
		Sort:   view.SortDate,
		Viewer: viewer,
		Now:    h.now(),
	}
	return &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 16),
		viewer: viewer,
		done:   make(chan struct{}),
		feed:   view.NewFeed(q, h.pageSize),
	}
}

// close 标记连接已注销，可重复调用
func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// refresh 镜像变化：按当前查询重算窗口并推送
func (c *Client) refresh(st repo.State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = st
	q := c.feed.Query()
	q.Now = c.hub.now()
	c.feed.Recompute(st.Events, q)
	c.pushFeedLocked()
}

func (c *Client) handleMessage(raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError(errorx.ErrInvalidParams("消息格式错误"))
		return
	}

	switch msg.Type {
	case TypePing:
		c.enqueue(Message{Type: TypePong, Timestamp: c.hub.now().Unix()})

	case TypeQuery:
		var d QueryData
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &d); err != nil {
				c.sendError(errorx.ErrInvalidParams("查询参数格式错误"))
				return
			}
		}
		q, err := view.Query{
			Search:   d.Q,
			Category: d.Category,
			Filter:   view.Filter(d.Filter),
			Sort:     view.SortKey(d.Sort),
			Viewer:   c.viewer,
			Now:      c.hub.now(),
		}.Normalize()
		if err != nil {
			c.sendError(err)
			return
		}

		c.mu.Lock()
		c.feed.Recompute(c.state.Events, q)
		c.pushFeedLocked()
		c.mu.Unlock()

	case TypeFetchMore:
		c.mu.Lock()
		_, err := c.feed.FetchMore(c.state.Events)
		if err == nil {
			c.pushFeedLocked()
		}
		c.mu.Unlock()
		if err != nil {
			c.sendError(err)
		}

	default:
		c.sendError(errorx.ErrInvalidParams("未知消息类型"))
	}
}

func (c *Client) pushFeedLocked() {
	data, err := json.Marshal(FeedData{
		List:    c.feed.Items(),
		HasMore: c.feed.HasMore(),
		Loading: c.state.Loading,
		Error:   c.state.Error,
		Version: c.state.Version,
	})
	if err != nil {
		logx.Errorf("[Hub] 序列化推送失败: %v", err)
		return
	}
	c.enqueue(Message{Type: TypeFeed, Timestamp: c.hub.now().Unix(), Data: data})
}

func (c *Client) sendError(err error) {
	biz := errorx.FromError(err)
	data, _ := json.Marshal(ErrorData{Code: biz.Code, Message: biz.Message})
	c.enqueue(Message{Type: TypeError, Timestamp: c.hub.now().Unix(), Data: data})
}

// enqueue 非阻塞写入发送队列；队列满时丢弃，下一次 feed 推送是全量的
func (c *Client) enqueue(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case <-c.done:
	case c.send <- data:
	default:
		logx.Infof("[Hub] 发送缓冲区已满，丢弃消息: viewer=%s, type=%s", c.viewer, msg.Type)
	}
}

// readPump 读取消息
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logx.Errorf("[Hub] WebSocket 错误: %v", err)
			}
			return
		}
		c.handleMessage(raw)
	}
}

// writePump 写入消息
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
