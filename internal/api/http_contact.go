package api

import (
	"labsite/internal/entity"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// SubmitContact 公开联系表单；邮件通知失败不影响响应
func (h *HTTPHandler) SubmitContact(c *gin.Context) {
	var req entity.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := storeContext(c)
	defer cancel()

	if err := h.contact.Submit(ctx, req); err != nil {
		respondServiceError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *HTTPHandler) ListContactMessages(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			BadRequest(c, ErrCodeInvalidRequest, "invalid limit")
			return
		}
		limit = value
	}

	ctx, cancel := storeContext(c)
	defer cancel()

	items, err := h.contact.List(ctx, limit)
	if err != nil {
		respondServiceError(c, err, true)
		return
	}
	c.JSON(http.StatusOK, items)
}
