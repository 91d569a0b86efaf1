package realtime

import (
	"backend/internal/character"
	"backend/internal/gamestate"
)

// 推送事件类型
const (
	EventWorldStateUpdated = "worldState:updated"
	EventCharactersUpdated = "characters:updated"
)

// Envelope 推送事件信封
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// WorldStatePayload worldState:updated 事件负载，携带完整文档而非差量
type WorldStatePayload struct {
	WorldStateID string                `json:"worldStateId"`
	WorldState   *gamestate.WorldState `json:"worldState"`
}

// CharactersPayload characters:updated 事件负载，仅携带角色列表
type CharactersPayload struct {
	WorldStateID string                `json:"worldStateId"`
	Characters   []character.Character `json:"characters"`
}
