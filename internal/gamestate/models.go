package gamestate

import (
	"time"

	"backend/internal/character"

	"gorm.io/datatypes"
)

// ============================================================================
// 世界状态（持久化行）
// ============================================================================

// WorldState 一场进行中团内的共享可变文档
// 整个嵌套 state 对象作为单个 jsonb 值整体读写；Version 是单调递增的
// 乐观锁计数器，每次持久化按读取时的版本做比较交换
type WorldState struct {
	ID      string `json:"id" gorm:"primaryKey;type:uuid"`
	WorldID string `json:"worldId" gorm:"type:uuid;not null;index"`
	Version int64  `json:"version" gorm:"not null;default:0"`

	State datatypes.JSONType[StateDocument] `json:"state" gorm:"type:jsonb"`

	// 参与角色（多对多关系，响应中始终反规范化带出）
	Characters []character.Character `json:"characters" gorm:"many2many:world_state_characters;"`

	CreatedAt time.Time `json:"createdAt" gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null;autoUpdateTime"`
}

// TableName 指定表名
func (WorldState) TableName() string {
	return "world_states"
}

// Document 返回嵌套 state 文档的副本
func (w *WorldState) Document() StateDocument {
	return w.State.Data()
}

// ============================================================================
// 嵌套 state 文档
// ============================================================================

// StateDocument 世界状态的嵌套文档，按 §持久化布局 整体序列化
type StateDocument struct {
	CharacterStates map[string]CharacterState `json:"characterStates"`
	Locations       []Location                `json:"locations"`
	Items           map[string]Item           `json:"items"`
	ItemTemplates   []ItemTemplate            `json:"itemTemplates,omitempty"`
	Plots           []Plot                    `json:"plots"`
	Lore            []LoreEntry               `json:"lore"`
	KeyEventsLog    []Event                   `json:"keyEventsLog"`
	CurrentGameTime string                    `json:"currentGameTime"`
	Outline         string                    `json:"outline,omitempty"`
}

// NewStateDocument 创建空文档（map 字段全部初始化）
func NewStateDocument() StateDocument {
	return StateDocument{
		CharacterStates: make(map[string]CharacterState),
		Locations:       []Location{},
		Items:           make(map[string]Item),
		Plots:           []Plot{},
		Lore:            []LoreEntry{},
		KeyEventsLog:    []Event{},
	}
}

// ensureMaps 反序列化出的旧文档可能缺 map 字段，变更前补齐
func (d *StateDocument) ensureMaps() {
	if d.CharacterStates == nil {
		d.CharacterStates = make(map[string]CharacterState)
	}
	if d.Items == nil {
		d.Items = make(map[string]Item)
	}
}

// ============================================================================
// 地点
// ============================================================================

// Location 地点记录，Name 在一个世界状态内充当主键
// ConnectedLocations 和 CurrentOccupants 是软引用（名字串），
// 不保证指向存在的记录
type Location struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	ConnectedLocations []string `json:"connectedLocations,omitempty"`
	NotableFeatures    []string `json:"notableFeatures,omitempty"`
	CurrentOccupants   []string `json:"currentOccupants,omitempty"`
	HiddenSecrets      []string `json:"hiddenSecrets,omitempty"`
	Items              []string `json:"items,omitempty"`
}

// ============================================================================
// 物品与物品模板
// ============================================================================

// ItemTemplate 可复用的物品默认定义（如"治疗药水"）
type ItemTemplate struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Type        string         `json:"type,omitempty"`
	Rarity      string         `json:"rarity,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
	Stats       map[string]any `json:"stats,omitempty"`
}

// Item 物品实例，Key 在世界状态的 items 表内唯一
// TemplateName 是软引用，可以指向不存在的模板
// 空字符串字段视为未设置，解析时由模板补默认值
type Item struct {
	Key          string         `json:"key"`
	Count        int            `json:"count,omitempty"`
	TemplateName string         `json:"templateName,omitempty"`
	Name         string         `json:"name,omitempty"`
	Description  string         `json:"description,omitempty"`
	Type         string         `json:"type,omitempty"`
	Rarity       string         `json:"rarity,omitempty"`
	Properties   map[string]any `json:"properties,omitempty"`
	Stats        map[string]any `json:"stats,omitempty"`
}

// ResolvedItem 模板合并后的展示视图，每次读取重新计算
type ResolvedItem struct {
	Key         string         `json:"key"`
	Count       int            `json:"count"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Type        string         `json:"type"`
	Rarity      string         `json:"rarity"`
	Properties  map[string]any `json:"properties"`
	Stats       map[string]any `json:"stats"`
}

// ============================================================================
// 剧情
// ============================================================================

// Plot 状态常量
const (
	PlotStatusActive    = "active"
	PlotStatusCompleted = "completed"
	PlotStatusPaused    = "paused"

	PlotImportanceMain     = "main"
	PlotImportanceSide     = "side"
	PlotImportancePersonal = "personal"
)

// Plot 剧情线，Title 在一个世界状态内充当主键
type Plot struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Status       string   `json:"status"`
	Importance   string   `json:"importance"`
	Participants []string `json:"participants,omitempty"` // 角色名（软引用）
	KeyEvents    []string `json:"keyEvents,omitempty"`
	NextSteps    []string `json:"nextSteps,omitempty"`
}

// ============================================================================
// 传说与事件
// ============================================================================

// LoreEntry 世界传说条目
type LoreEntry struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category,omitempty"`
}

// Event 关键事件日志条目
type Event struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	GameTime     string   `json:"gameTime,omitempty"`
	Participants []string `json:"participants,omitempty"`
}

// ============================================================================
// 角色动态状态
// ============================================================================

// StatValue 属性当前值/上限
type StatValue struct {
	Current float64 `json:"current"`
	Max     float64 `json:"max,omitempty"`
}

// CharacterState 角色的每场动态数据，与角色静态信息分离
type CharacterState struct {
	CurrentLocationName string               `json:"currentLocationName,omitempty"` // 软引用
	Inventory           []string             `json:"inventory"`                     // 物品 key 列表
	Stats               map[string]StatValue `json:"stats"`
	Attributes          map[string]float64   `json:"attributes"`
	Properties          map[string]any       `json:"properties"`
	Knowledge           map[string]any       `json:"knowledge"`
	Goals               map[string]any       `json:"goals"`
	Secrets             map[string]any       `json:"secrets"`
	DiscoveredLore      []string             `json:"discoveredLore"`
}

// NewCharacterState 创建默认角色状态（零值属性、空集合）
func NewCharacterState() CharacterState {
	return CharacterState{
		Inventory:      []string{},
		Stats:          make(map[string]StatValue),
		Attributes:     make(map[string]float64),
		Properties:     make(map[string]any),
		Knowledge:      make(map[string]any),
		Goals:          make(map[string]any),
		Secrets:        make(map[string]any),
		DiscoveredLore: []string{},
	}
}
