package session

import (
	"net/http"
	"time"

	respond "backend/api/handlers/common"
	"backend/internal/realtime"
	"backend/internal/world"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WebSocketHandler 管理频道实时推送的 WebSocket 连接
// 订阅按频道分组，同一频道的全部订阅者收到完全一致的事件字节
type WebSocketHandler struct {
	hub      *realtime.Hub
	worlds   *world.Service
	upgrader websocket.Upgrader
}

// NewWebSocketHandler 创建处理器
func NewWebSocketHandler(hub *realtime.Hub, worlds *world.Service) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		worlds: worlds,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 5 * time.Second,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Connect 升级连接并订阅指定频道的事件
func (h *WebSocketHandler) Connect(c *gin.Context) {
	channelID := c.Param("channelId")

	// 升级前校验频道存在，避免对无效频道持有连接
	if _, err := h.worlds.GetChannel(c.Request.Context(), channelID); err != nil {
		respond.FromError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	conn.SetReadLimit(1024)
	conn.SetReadDeadline(time.Now().Add(2 * time.Minute))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(2 * time.Minute))
	})

	h.hub.Register(channelID, conn)
	_ = conn.WriteJSON(gin.H{
		"type":      "connected",
		"channelId": channelID,
	})

	go h.readLoop(channelID, conn)
}

// readLoop 客户端只收不发，读循环仅用于感知断开
func (h *WebSocketHandler) readLoop(channelID string, conn *websocket.Conn) {
	defer func() {
		h.hub.Unregister(channelID, conn)
		_ = conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
