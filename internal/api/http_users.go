package api

import (
	"labsite/internal/entity"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) ListUsers(c *gin.Context) {
	var query entity.UserQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := storeContext(c)
	defer cancel()

	resp, err := h.users.List(ctx, CurrentIdentity(c), query)
	if err != nil {
		respondServiceError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HTTPHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req entity.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid user payload")
		return
	}

	ctx, cancel := storeContext(c)
	defer cancel()

	summary, err := h.users.Update(ctx, CurrentIdentity(c), id, req)
	if err != nil {
		respondServiceError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *HTTPHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ctx, cancel := storeContext(c)
	defer cancel()

	if err := h.users.Delete(ctx, CurrentIdentity(c), id); err != nil {
		respondServiceError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
