package character

import "time"

// ============================================================================
// 角色
// ============================================================================

// Character 角色静态信息
// 角色从不原地更新：每次编辑都会隐藏当前行并插入一条新行，
// 新行通过 OriginalID 链接到版本链的起点。删除即隐藏。
type Character struct {
	ID          string `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string `json:"name" gorm:"size:200;not null"`
	Description string `json:"description" gorm:"type:text"`
	Avatar      string `json:"avatar" gorm:"size:500"`

	// 版本链：指向链中第一个角色的ID，链首本身为空
	OriginalID string `json:"originalId,omitempty" gorm:"type:uuid;index"`

	// 软删除标记，列表查询始终过滤 is_hidden = false
	IsHidden bool `json:"isHidden" gorm:"default:false;index"`

	CreatorID string    `json:"creatorId" gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null;autoUpdateTime"`
}

// TableName 指定表名
func (Character) TableName() string {
	return "characters"
}

// ChainRootID 返回版本链起点的ID
func (c *Character) ChainRootID() string {
	if c.OriginalID != "" {
		return c.OriginalID
	}
	return c.ID
}

// ============================================================================
// 请求类型
// ============================================================================

// CreateCharacterRequest 创建角色请求
type CreateCharacterRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Avatar      string `json:"avatar"`
}

// UpdateCharacterRequest 编辑角色请求（仅提供的字段会被合并）
type UpdateCharacterRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Avatar      *string `json:"avatar"`
}

// ListQuery 角色列表查询
type ListQuery struct {
	CreatorID string `json:"creatorId" form:"creatorId"`
	Keyword   string `json:"keyword" form:"keyword"`
	Page      int    `json:"page" form:"page"`
	PageSize  int    `json:"pageSize" form:"pageSize"`
}
