package errorx

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// BizError 业务错误，实现 error 接口
// cause 仅用于排查（日志、errors.Unwrap），不会返回给前端
type BizError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`

	cause error
}

// Error 实现 error 接口
func (e *BizError) Error() string {
	return fmt.Sprintf("BizError: code=%d, message=%s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *BizError) Unwrap() error {
	return e.cause
}

// GetCode 获取错误码
func (e *BizError) GetCode() int {
	return e.Code
}

// GetMessage 获取错误消息
func (e *BizError) GetMessage() string {
	return e.Message
}

// New 创建业务错误（使用默认消息）
func New(code int) *BizError {
	return &BizError{
		Code:    code,
		Message: GetMessage(code),
	}
}

// NewWithMessage 创建业务错误（自定义消息）
func NewWithMessage(code int, message string) *BizError {
	return &BizError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装底层错误，消息保持默认文案，原始错误保留为 cause
func Wrap(code int, err error) *BizError {
	return &BizError{
		Code:    code,
		Message: GetMessage(code),
		cause:   err,
	}
}

// Is 判断是否为特定错误码（支持被包装的 BizError）
func Is(err error, code int) bool {
	if err == nil {
		return false
	}
	var bizErr *BizError
	if stderrors.As(err, &bizErr) {
		return bizErr.Code == code
	}
	return false
}

// CodeOf 返回错误对应的业务码，非 BizError 返回 CodeInternalError
func CodeOf(err error) int {
	if err == nil {
		return CodeSuccess
	}
	return FromError(err).Code
}

// FromError 从 error 转换为 BizError
//  1. *BizError（含 errors.Wrap / %w 包装）：直接返回
//  2. 其他错误：返回内部错误（隐藏细节）
func FromError(err error) *BizError {
	if err == nil {
		return nil
	}

	if bizErr, ok := errors.Cause(err).(*BizError); ok {
		return bizErr
	}

	var bizErr *BizError
	if stderrors.As(err, &bizErr) {
		return bizErr
	}

	return &BizError{
		Code:    CodeInternalError,
		Message: GetMessage(CodeInternalError),
		cause:   err,
	}
}

// ============ 常用错误快捷方法 ============

// ErrInvalidParams 参数错误
func ErrInvalidParams(msg string) *BizError {
	if msg == "" {
		return New(CodeInvalidParams)
	}
	return NewWithMessage(CodeInvalidParams, msg)
}

// ErrUnauthorized 未授权
func ErrUnauthorized() *BizError {
	return New(CodeUnauthorized)
}

// ErrInvalidToken Token无效
func ErrInvalidToken() *BizError {
	return New(CodeTokenInvalid)
}

// ErrForbidden 禁止访问
func ErrForbidden() *BizError {
	return New(CodeForbidden)
}

// ErrServiceUnavailable 服务不可用
func ErrServiceUnavailable() *BizError {
	return New(CodeServiceUnavailable)
}

// ============ 活动相关 ============

// ErrEventNotFound 活动不存在
func ErrEventNotFound() *BizError {
	return New(CodeEventNotFound)
}

// ErrRemoteFailure 存储或网络调用失败，保留原始错误
func ErrRemoteFailure(err error) *BizError {
	return Wrap(CodeRemoteFailure, err)
}
