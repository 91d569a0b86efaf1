package character

import (
	"net/http"

	respond "backend/api/handlers/common"
	"backend/internal/character"

	"github.com/gin-gonic/gin"
)

// Handler 角色 Handler
type Handler struct {
	service *character.Service
}

// NewHandler 创建 Handler
func NewHandler(service *character.Service) *Handler {
	return &Handler{service: service}
}

// actorID 取当前操作者ID（网关认证后注入的请求头）
func actorID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}

// Create 创建角色
func (h *Handler) Create(c *gin.Context) {
	var req character.CreateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	ch, err := h.service.Create(c.Request.Context(), actorID(c), &req)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Created(c, ch)
}

// Get 获取角色
func (h *Handler) Get(c *gin.Context) {
	ch, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Success(c, ch)
}

// List 角色列表（只返回每条版本链的当前版本）
func (h *Handler) List(c *gin.Context) {
	var query character.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	chars, total, err := h.service.List(c.Request.Context(), &query)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.List(c, chars, total, query.Page, query.PageSize)
}

// Update 编辑角色，生成新版本并隐藏旧版本
func (h *Handler) Update(c *gin.Context) {
	var req character.UpdateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	ch, err := h.service.Update(c.Request.Context(), c.Param("id"), actorID(c), &req)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Success(c, ch)
}

// Delete 删除角色（隐藏，不物理删除）
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Success(c, gin.H{"message": "角色已删除"})
}

// History 角色版本链（按创建时间升序）
func (h *Handler) History(c *gin.Context) {
	chars, err := h.service.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Success(c, chars)
}

// Current 角色版本链的当前版本
func (h *Handler) Current(c *gin.Context) {
	ch, err := h.service.Current(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Success(c, ch)
}
