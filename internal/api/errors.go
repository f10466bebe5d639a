package api

import (
	"net/http"

	"labsite/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 错误码定义
const (
	// 通用错误码
	ErrCodeInvalidRequest   = "ERR_INVALID_REQUEST"
	ErrCodeUnauthorized     = "ERR_UNAUTHORIZED"
	ErrCodeForbidden        = "ERR_FORBIDDEN"
	ErrCodeNotFound         = "ERR_NOT_FOUND"
	ErrCodeConflict         = "ERR_CONFLICT"
	ErrCodeInternalError    = "ERR_INTERNAL_ERROR"
	ErrCodeRateLimited      = "ERR_RATE_LIMITED"
	ErrCodePayloadTooLarge  = "ERR_PAYLOAD_TOO_LARGE"
	ErrCodeValidationFailed = "ERR_VALIDATION_FAILED"

	// 认证错误码
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeSessionExpired     = "ERR_SESSION_EXPIRED"

	// 业务错误码
	ErrCodeMissingField       = "ERR_MISSING_FIELD"
	ErrCodeUnsupportedMedia   = "ERR_UNSUPPORTED_MEDIA"
	ErrCodeStorageUnavailable = "ERR_STORAGE_UNAVAILABLE"
)

// APIError 统一的 API 错误响应结构
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse 返回统一格式的错误响应
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.AbortWithStatusJSON(status, APIError{
		Code:    code,
		Message: message,
	})
}

// ErrorResponseWithDetails 返回带详情的错误响应
func ErrorResponseWithDetails(c *gin.Context, status int, code string, message string, details any) {
	c.AbortWithStatusJSON(status, APIError{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// BadRequest 400 错误请求
func BadRequest(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401 未授权
func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// Forbidden 403 禁止访问
func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, ErrCodeForbidden, message)
}

// NotFound 404 资源不存在
func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, ErrCodeNotFound, message)
}

// InternalError 500 服务器内部错误
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// MissingField 缺少必填字段
func MissingField(c *gin.Context, field string) {
	ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeMissingField, field+" is required", gin.H{"field": field})
}

// InvalidPayload 无效的请求体
func InvalidPayload(c *gin.Context) {
	ErrorResponse(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request payload")
}

// statusForKind maps a service error kind to its HTTP status. On content
// routes an authorization failure is reported as 401.
func statusForKind(kind service.Kind, contentRoute bool) (int, string) {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest, ErrCodeValidationFailed
	case service.KindAuthentication:
		return http.StatusUnauthorized, ErrCodeUnauthorized
	case service.KindAuthorization:
		if contentRoute {
			return http.StatusUnauthorized, ErrCodeUnauthorized
		}
		return http.StatusForbidden, ErrCodeForbidden
	case service.KindNotFound:
		return http.StatusNotFound, ErrCodeNotFound
	case service.KindConflict:
		return http.StatusConflict, ErrCodeConflict
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// respondServiceError writes err as an APIError. Internal failures are logged
// with full detail and answered with a generic message.
func respondServiceError(c *gin.Context, err error, contentRoute bool) {
	kind := service.KindOf(err)
	status, code := statusForKind(kind, contentRoute)
	if kind == service.KindInternal {
		logrus.WithError(err).WithFields(logrus.Fields{
			"request_id": RequestID(c),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	ErrorResponse(c, status, code, service.PublicMessage(err))
}
