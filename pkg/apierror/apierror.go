// Package apierror 提供统一的 API 错误类型，所有服务在边界处返回该类型
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorResponse 错误响应结构
type ErrorResponse struct {
	Errors    []Error `json:"errors"`
	RequestID string  `json:"requestID"`
}

func (er *ErrorResponse) Error() string {
	str := fmt.Sprintf("RequestID: %s", er.RequestID)
	for _, e := range er.Errors {
		str += fmt.Sprintf("; %s", e.Error())
	}
	return str
}

// Error 单个错误信息
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"` // HTTP 状态码，不序列化
	RawError   error  `json:"-"` // 内部错误，仅用于日志
}

func (e *Error) Error() string {
	str := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.RawError != nil {
		str += fmt.Sprintf(" (RawError: %v)", e.RawError)
	}
	return str
}

// Is 按 Code 判断是否为同一类错误
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// Unwrap 返回 RawError
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.RawError
}

// Status 返回错误对应的 HTTP 状态码，未设置时为 500
func (e *Error) Status() int {
	if e == nil || e.HTTPStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.HTTPStatus
}

// NewError 创建新的错误，HTTP 状态码为 500
func NewError(code, message string) *Error {
	return NewErrorWithStatus(code, message, http.StatusInternalServerError)
}

// NewErrorWithStatus 创建新的错误，指定 HTTP 状态码
func NewErrorWithStatus(code, message string, httpStatus int) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// NewErrorWithRaw 创建带原始错误的错误，HTTP 状态码为 500
func NewErrorWithRaw(code, message string, rawError error) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		RawError:   rawError,
	}
}

// NewErrorResponse 创建新的错误响应
func NewErrorResponse(requestID string, errs ...*Error) *ErrorResponse {
	out := make([]Error, len(errs))
	for i, e := range errs {
		out[i] = *e
	}
	return &ErrorResponse{
		Errors:    out,
		RequestID: requestID,
	}
}

// AddError 添加错误到响应
func (er *ErrorResponse) AddError(err *Error) {
	er.Errors = append(er.Errors, *err)
}

// WrapError 使用预定义错误的 Code 和 HTTPStatus，替换消息并附带原始错误
func WrapError(baseErr *Error, message string, rawError error) *Error {
	return &Error{
		Code:       baseErr.Code,
		Message:    message,
		HTTPStatus: baseErr.HTTPStatus,
		RawError:   rawError,
	}
}

// WithMessage 使用预定义错误创建一个消息不同的新错误
func WithMessage(baseErr *Error, format string, args ...any) *Error {
	return WrapError(baseErr, fmt.Sprintf(format, args...), nil)
}

// WithStatus 使用预定义错误创建一个指定 HTTP 状态码的新错误
func WithStatus(baseErr *Error, httpStatus int, message string) *Error {
	return &Error{
		Code:       baseErr.Code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// From 将任意错误转换为 *Error，非 *Error 时包装为 ErrInternalError
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return WrapError(ErrInternalError, ErrInternalError.Message, err)
}
