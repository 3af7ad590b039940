// Package apperr 定义面向调用方的错误分类，handler 据此映射 HTTP 状态码
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code 错误分类
type Code string

const (
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeBadRequest   Code = "BAD_REQUEST"
	CodeConflict     Code = "CONFLICT"
	CodeInternal     Code = "INTERNAL"
)

// Error 带分类的业务错误
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New 创建业务错误
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap 包装底层错误
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Unauthorized 认证失败
func Unauthorized(message string) *Error { return New(CodeUnauthorized, message) }

// Forbidden 权限不足
func Forbidden(message string) *Error { return New(CodeForbidden, message) }

// NotFound 资源不存在或已失效
func NotFound(message string) *Error { return New(CodeNotFound, message) }

// BadRequest 请求校验失败
func BadRequest(message string) *Error { return New(CodeBadRequest, message) }

// Conflict 资源冲突
func Conflict(message string) *Error { return New(CodeConflict, message) }

// Internal 非预期的内部错误
func Internal(message string, cause error) *Error {
	return Wrap(CodeInternal, message, cause)
}

// CodeOf 提取错误分类，非业务错误归为 INTERNAL
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// MessageOf 提取面向调用方的消息
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

// HTTPStatus 错误分类对应的 HTTP 状态码
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
