package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error 业务错误（携带 HTTP 状态码，Handler 层据此写响应）
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// WithCause 附加底层错误（保留原状态码和消息）
func (e *Error) WithCause(err error) *Error {
	return &Error{Status: e.Status, Message: e.Message, cause: err}
}

// Validation 400 请求参数缺失或格式不合法
func Validation(format string, args ...any) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Authentication 401 缺失或无效的 token
func Authentication(format string, args ...any) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// Authorization 403 角色不符或非资源所有者
func Authorization(format string, args ...any) *Error {
	return &Error{Status: http.StatusForbidden, Message: fmt.Sprintf(format, args...)}
}

// NotFound 404 记录不存在
func NotFound(format string, args ...any) *Error {
	return &Error{Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict 409 资源冲突（如重复申请）
func Conflict(format string, args ...any) *Error {
	return &Error{Status: http.StatusConflict, Message: fmt.Sprintf(format, args...)}
}

// Upstream 500 Record/Blob/Identity 上游服务失败
func Upstream(message string, cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message, cause: cause}
}

// From 归一化任意 error：已是 *Error 则原样返回，否则按上游错误处理
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Upstream("internal server error", err)
}
