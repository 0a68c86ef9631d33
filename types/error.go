package types

import (
	"errors"
	"fmt"
)

// ErrorCode 表示统一的错误码。
type ErrorCode string

const (
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"
	ErrForbidden          ErrorCode = "FORBIDDEN"
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrBotOwnership       ErrorCode = "BOT_OWNERSHIP"
	ErrClassification     ErrorCode = "CLASSIFICATION"
	ErrUpstreamError      ErrorCode = "UPSTREAM_ERROR"
	ErrInternalError      ErrorCode = "INTERNAL_ERROR"
	ErrServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// Error 表示带错误码与元信息的结构化错误。
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Retryable  bool      `json:"retryable"`
	Cause      error     `json:"-"`
}

// Error 实现 error 接口。
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误。
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError 创建结构化错误。
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause 附加底层错误。
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithHTTPStatus 设置 HTTP 状态码。
func (e *Error) WithHTTPStatus(status int) *Error {
	e.HTTPStatus = status
	return e
}

// NewBotOwnershipError 创建跨租户使用 Bot 的错误。
// 该错误在任何 LLM 调用之前抛给调用方，中止本轮处理。
func NewBotOwnershipError(botID, tenantID string) *Error {
	return &Error{
		Code:       ErrBotOwnership,
		Message:    fmt.Sprintf("bot %q does not belong to tenant %q", botID, tenantID),
		HTTPStatus: 403,
	}
}

// NewBotInactiveError 创建机器人已停用的错误。
func NewBotInactiveError(botID string) *Error {
	return &Error{
		Code:       ErrForbidden,
		Message:    fmt.Sprintf("bot %q is inactive", botID),
		HTTPStatus: 403,
	}
}

// NewNotFoundError 创建实体不存在错误。
func NewNotFoundError(entityType, id string) *Error {
	return &Error{
		Code:       ErrNotFound,
		Message:    fmt.Sprintf("%s with id %q not found", entityType, id),
		HTTPStatus: 404,
	}
}

// GetErrorCode 提取错误码，沿 Unwrap 链查找；非结构化错误返回空串。
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsErrorCode 判断错误是否携带指定错误码。
func IsErrorCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}
