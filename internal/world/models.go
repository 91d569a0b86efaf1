package world

import "time"

// ============================================================================
// 世界
// ============================================================================

// World 世界（聚合根），拥有一组频道和世界状态
type World struct {
	ID          string   `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string   `json:"name" gorm:"size:200;not null"`
	Description string   `json:"description" gorm:"type:text"`
	Tags        []string `json:"tags" gorm:"type:jsonb;serializer:json"`
	Rules       string   `json:"rules,omitempty" gorm:"type:text"` // 可选的规则文本

	CreatorID string    `json:"creatorId" gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null;autoUpdateTime"`
}

// TableName 指定表名
func (World) TableName() string {
	return "worlds"
}

// ============================================================================
// 频道
// ============================================================================

// ChannelType 频道类型常量
const (
	ChannelTypeAnnouncement   = "announcement" // 公告
	ChannelTypeOutOfCharacter = "ooc"          // 场外
	ChannelTypeInCharacter    = "ic"           // 场内
)

// Channel 频道，属于一个世界，最多绑定一个世界状态
// 多个频道可以指向同一个世界状态（多个场景共享实时状态）
type Channel struct {
	ID      string `json:"id" gorm:"primaryKey;type:uuid"`
	WorldID string `json:"worldId" gorm:"type:uuid;not null;index"`
	Name    string `json:"name" gorm:"size:200;not null"`
	Type    string `json:"type" gorm:"size:20;not null"`

	// 可选外键：为空表示该频道没有实时状态视图
	WorldStateID *string `json:"worldStateId,omitempty" gorm:"type:uuid;index"`

	CreatedAt time.Time `json:"createdAt" gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null;autoUpdateTime"`
}

// TableName 指定表名
func (Channel) TableName() string {
	return "channels"
}

// ============================================================================
// 请求类型
// ============================================================================

// CreateWorldRequest 创建世界请求
type CreateWorldRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Rules       string   `json:"rules"`
}

// UpdateWorldRequest 更新世界请求（仅提供的字段会被合并）
type UpdateWorldRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
	Rules       *string   `json:"rules"`
}

// CreateChannelRequest 创建频道请求
type CreateChannelRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required,oneof=announcement ooc ic"`
}
