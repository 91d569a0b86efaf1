package common

import "errors"

// ============================================================================
// 业务状态码定义
// ============================================================================

const (
	// CodeSuccess 成功
	CodeSuccess = 0

	// 通用错误码 (1000-1999)
	CodeInvalidRequest = 1000 // 请求参数错误
	CodeForbidden      = 1002 // 禁止访问
	CodeNotFound       = 1003 // 资源不存在
	CodeConflict       = 1004 // 资源冲突（含乐观锁冲突）
	CodeInternalError  = 1005 // 内部错误
)

// ErrorMessages 错误码对应的默认消息
var ErrorMessages = map[int]string{
	CodeSuccess:        "操作成功",
	CodeInvalidRequest: "请求参数错误",
	CodeForbidden:      "无权限访问",
	CodeNotFound:       "资源不存在",
	CodeConflict:       "资源冲突",
	CodeInternalError:  "系统内部错误",
}

// GetErrorMessage 获取错误码对应的消息
func GetErrorMessage(code int) string {
	if msg, ok := ErrorMessages[code]; ok {
		return msg
	}
	return "未知错误"
}

// ============================================================================
// 通用业务错误类型
// ============================================================================

// BusinessError 业务错误，在操作边界被捕获并转换为结构化响应
type BusinessError struct {
	Code    int    // 错误码
	Message string // 错误信息
}

// Error 实现error接口
func (e *BusinessError) Error() string {
	return e.Message
}

// NewBusinessError 创建业务错误
func NewBusinessError(code int, message string) *BusinessError {
	if message == "" {
		message = GetErrorMessage(code)
	}
	return &BusinessError{Code: code, Message: message}
}

// NewNotFound 创建资源不存在错误
func NewNotFound(message string) *BusinessError {
	return NewBusinessError(CodeNotFound, message)
}

// NewForbidden 创建无权限错误
func NewForbidden(message string) *BusinessError {
	return NewBusinessError(CodeForbidden, message)
}

// NewConflict 创建冲突错误
func NewConflict(message string) *BusinessError {
	return NewBusinessError(CodeConflict, message)
}

// NewInvalidRequest 创建参数错误
func NewInvalidRequest(message string) *BusinessError {
	return NewBusinessError(CodeInvalidRequest, message)
}

// AsBusinessError 尝试从错误链中提取业务错误
func AsBusinessError(err error) (*BusinessError, bool) {
	var bizErr *BusinessError
	if errors.As(err, &bizErr) {
		return bizErr, true
	}
	return nil, false
}
