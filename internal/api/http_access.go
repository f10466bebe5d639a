package api

import (
	"labsite/internal/entity"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequestAccess 提交账户申请（公开接口，已限流）
func (h *HTTPHandler) RequestAccess(c *gin.Context) {
	var req entity.AccessRequestCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := storeContext(c)
	defer cancel()

	id, err := h.access.Submit(ctx, req)
	if err != nil {
		respondServiceError(c, err, false)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"requestId": id})
}

func (h *HTTPHandler) ListAccessRequests(c *gin.Context) {
	status := strings.TrimSpace(c.Query("status"))

	ctx, cancel := storeContext(c)
	defer cancel()

	items, err := h.access.List(ctx, CurrentIdentity(c), status)
	if err != nil {
		respondServiceError(c, err, false)
		return
	}
	if items == nil {
		items = []entity.DbAccessRequest{}
	}
	c.JSON(http.StatusOK, items)
}

// ReviewAccessRequest 审批或拒绝一个待处理申请
func (h *HTTPHandler) ReviewAccessRequest(c *gin.Context) {
	var req entity.AccessRequestReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := storeContext(c)
	defer cancel()

	reviewed, err := h.access.Review(ctx, CurrentIdentity(c), req)
	if err != nil {
		respondServiceError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, reviewed)
}
