package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// API 指标
var (
	// APIRequestsTotal API 请求总数
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worldstate_api_requests_total",
			Help: "API 请求总数",
		},
		[]string{"method", "path", "status"},
	)

	// APIRequestDuration API 请求延迟（秒）
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "worldstate_api_request_duration_seconds",
			Help:    "API 请求延迟分布",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// 世界状态变更指标
var (
	// MutationsTotal 世界状态变更操作总数
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worldstate_mutations_total",
			Help: "世界状态变更操作总数",
		},
		[]string{"operation", "outcome"}, // outcome: ok, not_found, conflict, error
	)

	// MutationRetries 乐观锁冲突重试次数
	MutationRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "worldstate_mutation_retries_total",
			Help: "乐观锁冲突导致的变更重试次数",
		},
	)

	// BroadcastsTotal 广播事件总数
	BroadcastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worldstate_broadcasts_total",
			Help: "推送到频道订阅者的广播事件总数",
		},
		[]string{"event"},
	)

	// WebSocketConnectionsGauge 当前 WebSocket 连接数
	WebSocketConnectionsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "worldstate_websocket_connections",
			Help: "当前活跃 WebSocket 连接数",
		},
	)
)
