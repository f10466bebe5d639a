package api

import (
	"labsite/internal/entity"
	"labsite/internal/service"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func (h *HTTPHandler) Login(c *gin.Context) {
	var req entity.AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid login payload")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		BadRequest(c, ErrCodeMissingField, "email and password are required")
		return
	}

	ctx, cancel := storeContext(c)
	defer cancel()

	resp, err := h.auth.Login(ctx, email, req.Password)
	if err != nil {
		if service.IsKind(err, service.KindAuthentication) {
			logrus.WithField("request_id", RequestID(c)).Warn("login attempt failed")
			ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, service.PublicMessage(err))
			return
		}
		respondServiceError(c, err, false)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Session 返回当前会话携带的身份
func (h *HTTPHandler) Session(c *gin.Context) {
	identity := CurrentIdentity(c)
	if identity == nil {
		Unauthorized(c, "authentication required")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": identity})
}
