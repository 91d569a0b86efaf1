package realtime

import (
	"context"
	"encoding/json"

	"backend/internal/character"
	"backend/internal/gamestate"
	"backend/internal/logger"
	"backend/internal/metrics"
	"backend/internal/world"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// relayTopic 跨实例中继用的 Redis 频道
const relayTopic = "realtime:events"

// relayMessage 中继消息：目标频道集合 + 已序列化的事件负载
type relayMessage struct {
	ChannelIDs []string        `json:"channelIds"`
	Payload    json.RawMessage `json:"payload"`
}

// Broadcaster 变更广播器
// 每次变更后解析绑定该世界状态的全部频道并向各自的订阅者组推送。
// 推送是尽力而为的：失败只记日志，写路径永远感知不到。
type Broadcaster struct {
	db    *gorm.DB
	pub   Publisher
	relay *redis.Client // 可选，多实例部署时经 Redis 扇出
}

// BroadcasterOption 配置广播器
type BroadcasterOption func(*Broadcaster)

// WithRelay 启用 Redis 中继
func WithRelay(client *redis.Client) BroadcasterOption {
	return func(b *Broadcaster) { b.relay = client }
}

// NewBroadcaster 创建广播器
func NewBroadcaster(db *gorm.DB, pub Publisher, opts ...BroadcasterOption) *Broadcaster {
	b := &Broadcaster{db: db, pub: pub}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// WorldStateUpdated 向绑定该世界状态的所有频道推送完整文档
// 不去重、不合并：每次变更各自触发一次完整广播
func (b *Broadcaster) WorldStateUpdated(ctx context.Context, state *gamestate.WorldState) {
	b.emit(ctx, state.ID, EventWorldStateUpdated, WorldStatePayload{
		WorldStateID: state.ID,
		WorldState:   state,
	})
}

// CharactersUpdated 角色挂接/移除后推送角色列表
func (b *Broadcaster) CharactersUpdated(ctx context.Context, worldStateID string, characters []character.Character) {
	b.emit(ctx, worldStateID, EventCharactersUpdated, CharactersPayload{
		WorldStateID: worldStateID,
		Characters:   characters,
	})
}

func (b *Broadcaster) emit(ctx context.Context, worldStateID, eventType string, payload any) {
	channelIDs, err := b.boundChannels(ctx, worldStateID)
	if err != nil {
		logger.WithContext(ctx).Warn("解析频道绑定失败，跳过广播",
			zap.String("worldStateId", worldStateID),
			zap.Error(err),
		)
		return
	}
	if len(channelIDs) == 0 {
		return
	}

	// 只序列化一次，保证所有订阅者收到的字节完全一致
	data, err := json.Marshal(Envelope{Type: eventType, Payload: payload})
	if err != nil {
		logger.WithContext(ctx).Error("序列化广播事件失败",
			zap.String("event", eventType),
			zap.Error(err),
		)
		return
	}

	for _, channelID := range channelIDs {
		b.pub.Publish(channelID, data)
	}
	metrics.BroadcastsTotal.WithLabelValues(eventType).Inc()

	if b.relay != nil {
		msg, _ := json.Marshal(relayMessage{ChannelIDs: channelIDs, Payload: data})
		if err := b.relay.Publish(ctx, relayTopic, msg).Err(); err != nil {
			logger.WithContext(ctx).Warn("Redis 中继发布失败",
				zap.String("event", eventType),
				zap.Error(err),
			)
		}
	}
}

// boundChannels 频道绑定解析：一个世界状态可能同时显示在 0..n 个频道
func (b *Broadcaster) boundChannels(ctx context.Context, worldStateID string) ([]string, error) {
	var channelIDs []string
	err := b.db.WithContext(ctx).Model(&world.Channel{}).
		Where("world_state_id = ?", worldStateID).
		Pluck("id", &channelIDs).Error
	return channelIDs, err
}

// RunRelay 订阅 Redis 中继并把其他实例的事件重放到本地 hub
// 随 ctx 取消退出；未启用中继时立即返回
func (b *Broadcaster) RunRelay(ctx context.Context) {
	if b.relay == nil {
		return
	}
	sub := b.relay.Subscribe(ctx, relayTopic)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var relayed relayMessage
			if err := json.Unmarshal([]byte(msg.Payload), &relayed); err != nil {
				logger.WithContext(ctx).Warn("解析中继消息失败", zap.Error(err))
				continue
			}
			for _, channelID := range relayed.ChannelIDs {
				b.pub.Publish(channelID, relayed.Payload)
			}
		}
	}
}
