package gamestate

import (
	"net/http"

	respond "backend/api/handlers/common"
	"backend/internal/gamestate"
	"backend/internal/world"

	"github.com/gin-gonic/gin"
)

// Handler 世界状态 Handler
// 所有变更端点都返回变更后的完整世界状态，客户端整体替换本地副本
type Handler struct {
	service *gamestate.Service
	worlds  *world.Service
}

// NewHandler 创建 Handler
func NewHandler(service *gamestate.Service, worlds *world.Service) *Handler {
	return &Handler{service: service, worlds: worlds}
}

// ============================================================================
// 生命周期与读取
// ============================================================================

// Create 创建世界状态
func (h *Handler) Create(c *gin.Context) {
	var req gamestate.CreateWorldStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	ws, err := h.service.Create(c.Request.Context(), req.WorldID)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Created(c, ws)
}

// Get 获取世界状态
func (h *Handler) Get(c *gin.Context) {
	ws, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Success(c, ws)
}

// GetByChannel 按频道获取其绑定的世界状态
func (h *Handler) GetByChannel(c *gin.Context) {
	wsID, err := h.worlds.ResolveChannelState(c.Request.Context(), c.Param("channelId"))
	if err != nil {
		respond.FromError(c, err)
		return
	}

	ws, err := h.service.Get(c.Request.Context(), wsID)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Success(c, ws)
}

// Delete 删除世界状态，先解除全部频道绑定
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.worlds.UnbindChannelsForState(c.Request.Context(), id); err != nil {
		respond.FromError(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Success(c, gin.H{"message": "世界状态已删除"})
}

// ResolveItems 返回模板合并后的物品视图
func (h *Handler) ResolveItems(c *gin.Context) {
	items, err := h.service.ResolveItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Success(c, items)
}

// ============================================================================
// 角色状态变更
// ============================================================================

// UpdateCharacterStat 更新角色单项属性当前值
func (h *Handler) UpdateCharacterStat(c *gin.Context) {
	var req gamestate.UpdateCharacterStatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	ws, err := h.service.UpdateCharacterStat(c.Request.Context(), c.Param("id"), &req)
	h.respond(c, ws, err)
}

// UpdateCharacterInfo 更新角色静态信息
func (h *Handler) UpdateCharacterInfo(c *gin.Context) {
	var req gamestate.UpdateCharacterInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	ws, err := h.service.UpdateCharacterInfo(c.Request.Context(), c.Param("id"), &req)
	h.respond(c, ws, err)
}

// UpdateCharacterNumericFields 合并角色数值字段
func (h *Handler) UpdateCharacterNumericFields(c *gin.Context) {
	var req gamestate.UpdateCharacterNumericFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	ws, err := h.service.UpdateCharacterNumericFields(c.Request.Context(), c.Param("id"), &req)
	h.respond(c, ws, err)
}

// UpdateCharacterProperties 合并角色自由属性与知识
func (h *Handler) UpdateCharacterProperties(c *gin.Context) {
	var req gamestate.UpdateCharacterPropertiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	ws, err := h.service.UpdateCharacterPropertiesAndKnowledge(c.Request.Context(), c.Param("id"), &req)
	h.respond(c, ws, err)
}

// UpdateCharacterGoals 合并角色目标
func (h *Handler) UpdateCharacterGoals(c *gin.Context) {
	var req gamestate.UpdateCharacterGoalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	ws, err := h.service.UpdateCharacterGoals(c.Request.Context(), c.Param("id"), &req)
	h.respond(c, ws, err)
}

// UpdateCharacterSecrets 合并角色秘密
func (h *Handler) UpdateCharacterSecrets(c *gin.Context) {
	var req gamestate.UpdateCharacterSecretsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	ws, err := h.service.UpdateCharacterSecrets(c.Request.Context(), c.Param("id"), &req)
	h.respond(c, ws, err)
}

// UpdateCharacterLocation 设置角色当前所在地点
func (h *Handler) UpdateCharacterLocation(c *gin.Context) {
	var req gamestate.UpdateCharacterLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	ws, err := h.service.UpdateCharacterLocation(c.Request.Context(), c.Param("id"), &req)
	h.respond(c, ws, err)
}

// ============================================================================
// 地点与剧情
// ============================================================================

// UpdateLocation 更新已存在地点的细节
func (h *Handler) UpdateLocation(c *gin.Context) {
	var req gamestate.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	ws, err := h.service.UpdateLocationDetails(c.Request.Context(), c.Param("id"), &req)
	h.respond(c, ws, err)
}

// AddLocation 新增地点
func (h *Handler) AddLocation(c *gin.Context) {
	var req gamestate.AddLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	ws, err := h.service.AddLocation(c.Request.Context(), c.Param("id"), &req)
	h.respond(c, ws, err)
}

// UpdatePlot 更新已存在剧情的细节
func (h *Handler) UpdatePlot(c *gin.Context) {
	var req gamestate.UpdatePlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	ws, err := h.service.UpdatePlotDetails(c.Request.Context(), c.Param("id"), &req)
	h.respond(c, ws, err)
}

// AddPlot 新增剧情
func (h *Handler) AddPlot(c *gin.Context) {
	var req gamestate.AddPlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	ws, err := h.service.AddPlot(c.Request.Context(), c.Param("id"), &req)
	h.respond(c, ws, err)
}

// ============================================================================
// 物品
// ============================================================================

// AddItem 新增物品
func (h *Handler) AddItem(c *gin.Context) {
	var req gamestate.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	ws, err := h.service.AddItem(c.Request.Context(), c.Param("id"), &req)
	h.respond(c, ws, err)
}

// UpdateItemProperty 更新物品单个字段
func (h *Handler) UpdateItemProperty(c *gin.Context) {
	var req gamestate.UpdateItemPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	ws, err := h.service.UpdateItemProperty(c.Request.Context(), c.Param("id"), &req)
	h.respond(c, ws, err)
}

// DeleteItem 删除物品
func (h *Handler) DeleteItem(c *gin.Context) {
	ws, err := h.service.DeleteItem(c.Request.Context(), c.Param("id"), c.Param("itemKey"))
	h.respond(c, ws, err)
}

// AddItemTemplate 新增或替换物品模板
func (h *Handler) AddItemTemplate(c *gin.Context) {
	var req gamestate.AddItemTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	ws, err := h.service.AddItemTemplate(c.Request.Context(), c.Param("id"), &req)
	h.respond(c, ws, err)
}

// AddItemToInventory 向角色背包添加物品
func (h *Handler) AddItemToInventory(c *gin.Context) {
	var req gamestate.InventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	ws, err := h.service.AddItemToCharacterInventory(c.Request.Context(), c.Param("id"), &req)
	h.respond(c, ws, err)
}

// RemoveItemFromInventory 从角色背包移除物品
func (h *Handler) RemoveItemFromInventory(c *gin.Context) {
	var req gamestate.InventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	ws, err := h.service.RemoveItemFromCharacterInventory(c.Request.Context(), c.Param("id"), &req)
	h.respond(c, ws, err)
}

// ============================================================================
// 传说、事件与元信息
// ============================================================================

// AddLore 新增传说条目
func (h *Handler) AddLore(c *gin.Context) {
	var req gamestate.AddLoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	ws, err := h.service.AddLoreEntry(c.Request.Context(), c.Param("id"), &req)
	h.respond(c, ws, err)
}

// AppendEvent 追加关键事件
func (h *Handler) AppendEvent(c *gin.Context) {
	var req gamestate.AppendEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	ws, err := h.service.AppendKeyEvent(c.Request.Context(), c.Param("id"), &req)
	h.respond(c, ws, err)
}

// UpdateMetadata 更新顶层元信息
func (h *Handler) UpdateMetadata(c *gin.Context) {
	var req gamestate.UpdateMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	ws, err := h.service.UpdateMetadata(c.Request.Context(), c.Param("id"), &req)
	h.respond(c, ws, err)
}

// ============================================================================
// 角色挂接
// ============================================================================

// UpdateCharacters 挂接角色（并集语义）
func (h *Handler) UpdateCharacters(c *gin.Context) {
	var req gamestate.UpdateCharactersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	ws, err := h.service.UpdateWorldStateCharacters(c.Request.Context(), c.Param("id"), &req)
	h.respond(c, ws, err)
}

// RemoveCharacter 从世界状态移除角色
func (h *Handler) RemoveCharacter(c *gin.Context) {
	ws, err := h.service.RemoveCharacterFromWorldState(c.Request.Context(), c.Param("id"), c.Param("characterId"))
	h.respond(c, ws, err)
}

func (h *Handler) respond(c *gin.Context, ws *gamestate.WorldState, err error) {
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Success(c, ws)
}
