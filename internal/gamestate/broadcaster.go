package gamestate

import (
	"context"

	"backend/internal/character"
)

// Broadcaster 变更广播能力，由构造方显式注入
// 广播是尽力而为的：投递失败对写路径不可见，调用方总是直接拿到
// 变更后的文档作为返回值
type Broadcaster interface {
	// WorldStateUpdated 向绑定该世界状态的所有频道推送完整文档
	WorldStateUpdated(ctx context.Context, state *WorldState)
	// CharactersUpdated 角色挂接/移除后推送角色列表
	CharactersUpdated(ctx context.Context, worldStateID string, characters []character.Character)
}

// NopBroadcaster 空实现，用于测试和离线工具
type NopBroadcaster struct{}

// WorldStateUpdated 空实现
func (NopBroadcaster) WorldStateUpdated(ctx context.Context, state *WorldState) {}

// CharactersUpdated 空实现
func (NopBroadcaster) CharactersUpdated(ctx context.Context, worldStateID string, characters []character.Character) {
}
