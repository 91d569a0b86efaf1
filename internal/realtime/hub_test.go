package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dialTestConn(t *testing.T, hub *Hub, channelID string) (client, server *websocket.Conn) {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	serverConns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Register(channelID, conn)
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case server = <-serverConns:
	case <-time.After(time.Second):
		t.Fatal("等待服务端连接超时")
	}
	return client, server
}

func TestHubPublishToChannelSubscribers(t *testing.T) {
	hub := NewHub(WithKeepAliveInterval(0))

	c1, _ := dialTestConn(t, hub, "channel-1")
	c2, _ := dialTestConn(t, hub, "channel-1")
	other, _ := dialTestConn(t, hub, "channel-2")

	require.Equal(t, 2, hub.SubscriberCount("channel-1"))
	require.Equal(t, 1, hub.SubscriberCount("channel-2"))

	payload := []byte(`{"type":"worldState:updated"}`)
	hub.Publish("channel-1", payload)

	for _, client := range []*websocket.Conn{c1, c2} {
		client.SetReadDeadline(time.Now().Add(time.Second))
		_, data, err := client.ReadMessage()
		require.NoError(t, err)
		require.Equal(t, payload, data)
	}

	// 其他频道的订阅者收不到
	other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err := other.ReadMessage()
	require.Error(t, err)
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub(WithKeepAliveInterval(0))

	_, server := dialTestConn(t, hub, "channel-1")
	require.Equal(t, 1, hub.SubscriberCount("channel-1"))

	hub.Unregister("channel-1", server)
	require.Equal(t, 0, hub.SubscriberCount("channel-1"))

	// 重复注销无副作用
	hub.Unregister("channel-1", server)
	require.Equal(t, 0, hub.SubscriberCount("channel-1"))
}

func TestHubPublishDropsDeadConnections(t *testing.T) {
	hub := NewHub(WithKeepAliveInterval(0), WithWriteTimeout(100*time.Millisecond))

	client, _ := dialTestConn(t, hub, "channel-1")
	require.Equal(t, 1, hub.SubscriberCount("channel-1"))

	// 客户端断开后的推送应把失效连接清出订阅者组
	client.Close()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && hub.SubscriberCount("channel-1") > 0 {
		hub.Publish("channel-1", []byte("ping"))
		time.Sleep(20 * time.Millisecond)
	}
	require.Equal(t, 0, hub.SubscriberCount("channel-1"))
}
