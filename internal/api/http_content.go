package api

import (
	"errors"
	"io"
	"labsite/internal/entity"
	"labsite/internal/service"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// maxContentBody caps JSON payloads on content routes.
const maxContentBody = 1 << 20

// registerContent mounts the five routes of one content family. Reads are
// public; writes pass RequireContentAdmin before the body is read.
func registerContent[T any, PT entity.ContentPtr[T]](r *gin.RouterGroup, h *HTTPHandler, svc *service.ContentService[T, PT]) {
	base := "/" + svc.Resource()
	admin := h.RequireContentAdmin()

	r.GET(base, listContent(svc))
	r.GET(base+"/:id", getContent(svc))
	r.POST(base, admin, createContent(svc))
	r.PUT(base+"/:id", admin, updateContent(svc))
	r.DELETE(base+"/:id", admin, deleteContent(svc))
}

func (h *HTTPHandler) registerContentRoutes(r *gin.RouterGroup) {
	registerContent(r, h, h.content.Datasets)
	registerContent(r, h, h.content.Prototypes)
	registerContent(r, h, h.content.WorkingPapers)
	registerContent(r, h, h.content.SocialPosts)
	registerContent(r, h, h.content.LiteratureReviews)
	registerContent(r, h, h.content.ResearchThemes)
	registerContent(r, h, h.content.Updates)
	registerContent(r, h, h.content.ResearchArtifacts)
	registerContent(r, h, h.content.ExternalPapers)
}

func listContent[T any, PT entity.ContentPtr[T]](svc *service.ContentService[T, PT]) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters := service.Filters{}
		for key, values := range c.Request.URL.Query() {
			if len(values) > 0 {
				if value := strings.TrimSpace(values[0]); value != "" {
					filters[key] = value
				}
			}
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		items, err := svc.List(ctx, filters)
		if err != nil {
			respondServiceError(c, err, true)
			return
		}
		if items == nil {
			items = []T{}
		}
		c.JSON(http.StatusOK, items)
	}
}

func getContent[T any, PT entity.ContentPtr[T]](svc *service.ContentService[T, PT]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		item, err := svc.Get(ctx, id)
		if err != nil {
			respondServiceError(c, err, true)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func createContent[T any, PT entity.ContentPtr[T]](svc *service.ContentService[T, PT]) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := readContentBody(c)
		if !ok {
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		item, err := svc.Create(ctx, raw)
		if err != nil {
			respondServiceError(c, err, true)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func updateContent[T any, PT entity.ContentPtr[T]](svc *service.ContentService[T, PT]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		raw, ok := readContentBody(c)
		if !ok {
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		item, err := svc.Update(ctx, id, raw)
		if err != nil {
			respondServiceError(c, err, true)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func deleteContent[T any, PT entity.ContentPtr[T]](svc *service.ContentService[T, PT]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		if err := svc.Delete(ctx, id); err != nil {
			respondServiceError(c, err, true)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

func readContentBody(c *gin.Context) ([]byte, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxContentBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ErrorResponse(c, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "payload too large")
			return nil, false
		}
		InvalidPayload(c)
		return nil, false
	}
	return raw, true
}
