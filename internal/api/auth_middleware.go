package api

import (
	"labsite/internal/entity"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	currentIdentityContextKey = "current-identity"
)

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// authenticate parses the session and stores the identity on the context.
// It writes a 401 and returns nil when the session is missing or invalid.
func (h *HTTPHandler) authenticate(c *gin.Context) *entity.Identity {
	token, ok := bearerToken(c)
	if !ok {
		Unauthorized(c, "authentication required")
		return nil
	}
	identity, err := h.auth.ParseSession(token)
	if err != nil {
		logrus.WithError(err).WithField("request_id", RequestID(c)).Debug("rejected session token")
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeSessionExpired, "invalid or expired session")
		return nil
	}
	c.Set(currentIdentityContextKey, identity)
	return identity
}

// RequireSession 要求请求携带有效会话
func (h *HTTPHandler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.authenticate(c) == nil {
			return
		}
		c.Next()
	}
}

// RequireContentAdmin 内容写操作守卫：任何失败都返回 401，且在解析请求体之前执行
func (h *HTTPHandler) RequireContentAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := h.authenticate(c)
		if identity == nil {
			return
		}
		ctx, cancel := storeContext(c)
		defer cancel()

		ok, err := h.authz.IsAdmin(ctx, identity)
		if err != nil {
			respondServiceError(c, err, true)
			return
		}
		if !ok {
			Unauthorized(c, "admin privileges required")
			return
		}
		c.Next()
	}
}

// RequireSuperAdmin 用户管理守卫：无会话 401，权限不足 403
func (h *HTTPHandler) RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := h.authenticate(c)
		if identity == nil {
			return
		}
		ctx, cancel := storeContext(c)
		defer cancel()

		ok, err := h.authz.IsSuperAdmin(ctx, identity)
		if err != nil {
			respondServiceError(c, err, false)
			return
		}
		if !ok {
			Forbidden(c, "super admin privileges required")
			return
		}
		c.Next()
	}
}

// CurrentIdentity 从上下文获取当前认证身份
func CurrentIdentity(c *gin.Context) *entity.Identity {
	value, exists := c.Get(currentIdentityContextKey)
	if !exists {
		return nil
	}
	identity, ok := value.(*entity.Identity)
	if !ok {
		return nil
	}
	return identity
}
