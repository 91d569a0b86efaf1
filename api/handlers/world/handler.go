package world

import (
	"net/http"

	respond "backend/api/handlers/common"
	"backend/internal/world"

	"github.com/gin-gonic/gin"
)

// Handler 世界与频道 Handler
type Handler struct {
	service *world.Service
}

// NewHandler 创建 Handler
func NewHandler(service *world.Service) *Handler {
	return &Handler{service: service}
}

func actorID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}

// ============================================================================
// 世界
// ============================================================================

// CreateWorld 创建世界
func (h *Handler) CreateWorld(c *gin.Context) {
	var req world.CreateWorldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	w, err := h.service.CreateWorld(c.Request.Context(), actorID(c), &req)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Created(c, w)
}

// GetWorld 获取世界
func (h *Handler) GetWorld(c *gin.Context) {
	w, err := h.service.GetWorld(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Success(c, w)
}

// ListWorlds 世界列表
func (h *Handler) ListWorlds(c *gin.Context) {
	var query struct {
		CreatorID string `form:"creatorId"`
		Page      int    `form:"page"`
		PageSize  int    `form:"pageSize"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	worlds, total, err := h.service.ListWorlds(c.Request.Context(), query.CreatorID, query.Page, query.PageSize)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.List(c, worlds, total, query.Page, query.PageSize)
}

// UpdateWorld 更新世界基本信息
func (h *Handler) UpdateWorld(c *gin.Context) {
	var req world.UpdateWorldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	w, err := h.service.UpdateWorld(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Success(c, w)
}

// DeleteWorld 删除世界及其频道与世界状态
func (h *Handler) DeleteWorld(c *gin.Context) {
	if err := h.service.DeleteWorld(c.Request.Context(), c.Param("id")); err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Success(c, gin.H{"message": "世界已删除"})
}

// ============================================================================
// 频道
// ============================================================================

// CreateChannel 在世界下创建频道
func (h *Handler) CreateChannel(c *gin.Context) {
	var req world.CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	ch, err := h.service.CreateChannel(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Created(c, ch)
}

// ListChannels 世界下的频道列表
func (h *Handler) ListChannels(c *gin.Context) {
	channels, err := h.service.ListChannels(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Success(c, channels)
}

// GetChannel 获取频道
func (h *Handler) GetChannel(c *gin.Context) {
	ch, err := h.service.GetChannel(c.Request.Context(), c.Param("channelId"))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Success(c, ch)
}

// BindChannel 将频道绑定到世界状态
func (h *Handler) BindChannel(c *gin.Context) {
	var req struct {
		WorldStateID string `json:"worldStateId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	ch, err := h.service.BindChannel(c.Request.Context(), c.Param("channelId"), req.WorldStateID)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Success(c, ch)
}

// UnbindChannel 解除频道与世界状态的绑定
func (h *Handler) UnbindChannel(c *gin.Context) {
	ch, err := h.service.UnbindChannel(c.Request.Context(), c.Param("channelId"))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Success(c, ch)
}

// DeleteChannel 删除频道
func (h *Handler) DeleteChannel(c *gin.Context) {
	if err := h.service.DeleteChannel(c.Request.Context(), c.Param("channelId")); err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Success(c, gin.H{"message": "频道已删除"})
}
