package gamestate

// ============================================================================
// 变更操作请求类型（gin 绑定校验在任何文档读取之前执行）
// ============================================================================

// UpdateCharacterStatRequest 更新角色单项属性当前值
type UpdateCharacterStatRequest struct {
	CharacterID string   `json:"characterId" binding:"required"`
	StatName    string   `json:"statName" binding:"required"`
	NewValue    *float64 `json:"newValue" binding:"required"`
}

// UpdateCharacterInfoRequest 更新角色静态信息（写角色行，不写嵌入状态）
type UpdateCharacterInfoRequest struct {
	CharacterID string  `json:"characterId" binding:"required"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Avatar      *string `json:"avatar"`
}

// UpdateCharacterNumericFieldsRequest 合并角色数值字段
// 提供的键整体替换现有值，未提供的键保持不变
type UpdateCharacterNumericFieldsRequest struct {
	CharacterID string               `json:"characterId" binding:"required"`
	Stats       map[string]StatValue `json:"stats"`
	Attributes  map[string]float64   `json:"attributes"`
}

// UpdateCharacterPropertiesRequest 合并角色自由属性与知识
type UpdateCharacterPropertiesRequest struct {
	CharacterID string         `json:"characterId" binding:"required"`
	Properties  map[string]any `json:"properties"`
	Knowledge   map[string]any `json:"knowledge"`
}

// UpdateCharacterGoalsRequest 合并角色目标
type UpdateCharacterGoalsRequest struct {
	CharacterID string         `json:"characterId" binding:"required"`
	Goals       map[string]any `json:"goals" binding:"required"`
}

// UpdateCharacterSecretsRequest 合并角色秘密
type UpdateCharacterSecretsRequest struct {
	CharacterID string         `json:"characterId" binding:"required"`
	Secrets     map[string]any `json:"secrets" binding:"required"`
}

// UpdateCharacterLocationRequest 设置角色当前所在地点（软引用，不校验存在性）
type UpdateCharacterLocationRequest struct {
	CharacterID  string `json:"characterId" binding:"required"`
	LocationName string `json:"locationName" binding:"required"`
}

// PartialLocation 地点的部分更新，仅提供的字段会被替换
type PartialLocation struct {
	Description        *string   `json:"description"`
	ConnectedLocations *[]string `json:"connectedLocations"`
	NotableFeatures    *[]string `json:"notableFeatures"`
	CurrentOccupants   *[]string `json:"currentOccupants"`
	HiddenSecrets      *[]string `json:"hiddenSecrets"`
	Items              *[]string `json:"items"`
}

// UpdateLocationRequest 更新已存在地点的细节
type UpdateLocationRequest struct {
	LocationName string          `json:"locationName" binding:"required"`
	Location     PartialLocation `json:"location" binding:"required"`
}

// AddLocationRequest 新增地点
type AddLocationRequest struct {
	Location Location `json:"location" binding:"required"`
}

// PartialPlot 剧情的部分更新
type PartialPlot struct {
	Description  *string   `json:"description"`
	Status       *string   `json:"status" binding:"omitempty,oneof=active completed paused"`
	Importance   *string   `json:"importance" binding:"omitempty,oneof=main side personal"`
	Participants *[]string `json:"participants"`
	KeyEvents    *[]string `json:"keyEvents"`
	NextSteps    *[]string `json:"nextSteps"`
}

// UpdatePlotRequest 更新已存在剧情的细节
type UpdatePlotRequest struct {
	PlotTitle string      `json:"plotTitle" binding:"required"`
	Plot      PartialPlot `json:"plot" binding:"required"`
}

// AddPlotRequest 新增剧情
type AddPlotRequest struct {
	Plot Plot `json:"plot" binding:"required"`
}

// AddItemRequest 新增物品
type AddItemRequest struct {
	Item Item `json:"item" binding:"required"`
}

// UpdateItemPropertyRequest 更新物品单个字段
type UpdateItemPropertyRequest struct {
	ItemKey      string `json:"itemKey" binding:"required"`
	PropertyName string `json:"propertyName" binding:"required"`
	NewValue     any    `json:"newValue"`
}

// InventoryRequest 角色背包增删
// 添加时可附带完整物品对象，会同时 upsert 到 state.items
type InventoryRequest struct {
	CharacterID string `json:"characterId" binding:"required"`
	ItemKey     string `json:"itemKey" binding:"required"`
	Item        *Item  `json:"item"`
}

// AddItemTemplateRequest 新增或替换物品模板
type AddItemTemplateRequest struct {
	Template ItemTemplate `json:"template" binding:"required"`
}

// AddLoreRequest 新增传说条目
type AddLoreRequest struct {
	Lore LoreEntry `json:"lore" binding:"required"`
}

// AppendEventRequest 追加关键事件
type AppendEventRequest struct {
	Event Event `json:"event" binding:"required"`
}

// UpdateMetadataRequest 更新顶层元信息，仅提供的字段会被合并
type UpdateMetadataRequest struct {
	CurrentGameTime *string `json:"currentGameTime"`
	Outline         *string `json:"outline"`
}

// UpdateCharactersRequest 挂接角色（并集语义，从不移除）
type UpdateCharactersRequest struct {
	CharacterIDs []string `json:"characterIds" binding:"required,min=1"`
}

// CreateWorldStateRequest 创建世界状态
type CreateWorldStateRequest struct {
	WorldID string `json:"worldId" binding:"required"`
}
