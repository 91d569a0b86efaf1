package realtime

import (
	"sync"
	"time"

	"backend/internal/logger"
	"backend/internal/metrics"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Publisher 频道级推送能力，广播器只依赖这一个口
type Publisher interface {
	// Publish 将已序列化的负载推送给频道的全部订阅者
	Publish(channelID string, payload []byte)
}

type clientConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Hub 管理按频道分组的 WebSocket 连接
// 负载在广播器中只序列化一次，同一事件推给所有订阅者的字节完全一致
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[*websocket.Conn]*clientConn

	keepAliveInterval time.Duration
	writeTimeout      time.Duration
	logger            *zap.Logger
}

// HubOption 配置 hub
type HubOption func(*Hub)

// WithKeepAliveInterval 设置心跳间隔
func WithKeepAliveInterval(interval time.Duration) HubOption {
	return func(h *Hub) { h.keepAliveInterval = interval }
}

// WithWriteTimeout 设置单次写超时
func WithWriteTimeout(timeout time.Duration) HubOption {
	return func(h *Hub) { h.writeTimeout = timeout }
}

// WithHubLogger 设置日志器
func WithHubLogger(l *zap.Logger) HubOption {
	return func(h *Hub) { h.logger = l }
}

// NewHub 创建 Hub
func NewHub(opts ...HubOption) *Hub {
	hub := &Hub{
		channels:          make(map[string]map[*websocket.Conn]*clientConn),
		keepAliveInterval: 30 * time.Second,
		writeTimeout:      5 * time.Second,
		logger:            logger.Get(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(hub)
		}
	}
	return hub
}

// Register 将连接注册到一个频道的订阅者组
func (h *Hub) Register(channelID string, conn *websocket.Conn) {
	client := &clientConn{conn: conn}

	h.mu.Lock()
	if _, ok := h.channels[channelID]; !ok {
		h.channels[channelID] = make(map[*websocket.Conn]*clientConn)
	}
	h.channels[channelID][conn] = client
	h.mu.Unlock()

	metrics.WebSocketConnectionsGauge.Inc()
	h.startKeepAlive(channelID, client)
}

// Unregister 移除连接
func (h *Hub) Unregister(channelID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.channels[channelID]; ok {
		if _, ok := conns[conn]; ok {
			delete(conns, conn)
			metrics.WebSocketConnectionsGauge.Dec()
		}
		if len(conns) == 0 {
			delete(h.channels, channelID)
		}
	}
}

// Publish 推送负载给频道的全部订阅者
// 尽力而为：单个连接写失败只影响该连接，不向调用方暴露错误
func (h *Hub) Publish(channelID string, payload []byte) {
	h.mu.RLock()
	conns := make([]*clientConn, 0, len(h.channels[channelID]))
	for _, client := range h.channels[channelID] {
		conns = append(conns, client)
	}
	h.mu.RUnlock()

	for _, client := range conns {
		client.mu.Lock()
		client.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		err := client.conn.WriteMessage(websocket.TextMessage, payload)
		client.mu.Unlock()
		if err != nil {
			if h.logger != nil {
				h.logger.Debug("推送消息失败，移除连接",
					zap.String("channelId", channelID),
					zap.Error(err),
				)
			}
			h.Unregister(channelID, client.conn)
			_ = client.conn.Close()
		}
	}
}

// SubscriberCount 返回频道当前订阅者数（用于调试/指标）
func (h *Hub) SubscriberCount(channelID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channelID])
}

func (h *Hub) startKeepAlive(channelID string, client *clientConn) {
	if h.keepAliveInterval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(h.keepAliveInterval)
		defer ticker.Stop()
		for range ticker.C {
			client.mu.Lock()
			err := client.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.writeTimeout))
			client.mu.Unlock()
			if err != nil {
				h.Unregister(channelID, client.conn)
				_ = client.conn.Close()
				return
			}
		}
	}()
}
