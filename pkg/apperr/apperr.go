// Package apperr 业务错误类型：服务层统一返回带 Code 的错误，
// API 层据此映射 HTTP 状态码。
package apperr

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeBadRequest   Code = "BAD_REQUEST"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInternal     Code = "INTERNAL"
)

type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func BadRequest(msg string) error   { return New(CodeBadRequest, msg) }
func Unauthorized(msg string) error { return New(CodeUnauthorized, msg) }
func Forbidden(msg string) error    { return New(CodeForbidden, msg) }
func NotFound(msg string) error     { return New(CodeNotFound, msg) }
func Internal(msg string) error     { return New(CodeInternal, msg) }

// CodeOf 取错误的业务码，非 *Error 一律按 INTERNAL 处理
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf 取对外展示的错误信息；内部错误不外泄细节
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Code != CodeInternal {
		return e.Message
	}
	return "internal server error"
}
