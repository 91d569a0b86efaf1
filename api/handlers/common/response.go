package common

import (
	"net/http"

	"backend/internal/common"

	"github.com/gin-gonic/gin"
)

// APIResponse 通用响应结构，用于封装成功或失败结果。
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Code    int         `json:"code"`
}

// PaginationMeta 分页元信息。
type PaginationMeta struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int   `json:"total_page"`
}

// ListResponse 列表响应结构，包含数据与分页信息。
type ListResponse struct {
	Items      interface{}    `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// Success 返回成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// Created 返回创建成功响应（201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// Error 返回错误响应
func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, APIResponse{Success: false, Message: message, Code: codeForStatus(httpStatus)})
}

// FromError 根据错误类型返回响应：业务错误映射到对应 HTTP 状态码，
// 其余一律按内部错误处理
func FromError(c *gin.Context, err error) {
	if bizErr, ok := common.AsBusinessError(err); ok {
		c.JSON(statusForCode(bizErr.Code), APIResponse{
			Success: false,
			Message: bizErr.Message,
			Code:    bizErr.Code,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, APIResponse{
		Success: false,
		Message: common.GetErrorMessage(common.CodeInternalError),
		Code:    common.CodeInternalError,
	})
}

// List 返回分页列表响应
func List(c *gin.Context, items interface{}, total int64, page, pageSize int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	totalPage := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPage++
	}
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data: ListResponse{
			Items: items,
			Pagination: PaginationMeta{
				Page:      page,
				PageSize:  pageSize,
				Total:     total,
				TotalPage: totalPage,
			},
		},
	})
}

func statusForCode(code int) int {
	switch code {
	case common.CodeInvalidRequest:
		return http.StatusBadRequest
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func codeForStatus(httpStatus int) int {
	switch httpStatus {
	case http.StatusBadRequest:
		return common.CodeInvalidRequest
	case http.StatusForbidden:
		return common.CodeForbidden
	case http.StatusNotFound:
		return common.CodeNotFound
	case http.StatusConflict:
		return common.CodeConflict
	default:
		return common.CodeInternalError
	}
}
