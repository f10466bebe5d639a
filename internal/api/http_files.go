package api

import (
	"errors"
	"io"
	"labsite/internal/storage"
	"labsite/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// multipartOverhead leaves room for boundaries and form fields around the file.
const multipartOverhead = 1 << 20

func (h *HTTPHandler) publicURL(path string) string {
	return storage.PublicURL(h.storagePublicBase, path)
}

// UploadMedia 上传图片或 PDF，按内容哈希命名，重复上传复用同一对象
func (h *HTTPHandler) UploadMedia(c *gin.Context) {
	if h.storage == nil {
		ErrorResponse(c, http.StatusServiceUnavailable, ErrCodeStorageUnavailable, "media storage not configured")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxUploadBytes+multipartOverhead)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			ErrorResponse(c, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "file too large")
		case errors.Is(err, http.ErrMissingFile):
			MissingField(c, "file")
		default:
			InvalidPayload(c)
		}
		return
	}
	if fileHeader.Size > storage.MaxUploadBytes {
		ErrorResponse(c, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logrus.WithError(err).WithField("request_id", RequestID(c)).Error("failed to open uploaded file")
		InternalError(c, "failed to read upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxUploadBytes+1))
	if err != nil {
		logrus.WithError(err).WithField("request_id", RequestID(c)).Error("failed to read uploaded file")
		InternalError(c, "failed to read upload")
		return
	}
	if len(data) == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "file is empty")
		return
	}
	if len(data) > storage.MaxUploadBytes {
		ErrorResponse(c, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "file too large")
		return
	}

	mimeType, ext := utils.DetectMedia(data, fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if ext == "" {
		ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeUnsupportedMedia, "only images and PDF files are accepted", gin.H{"contentType": mimeType})
		return
	}

	category := storage.SanitizeCategory(utils.FirstNonEmpty(c.PostForm("category"), "media"))
	if category == "" {
		BadRequest(c, ErrCodeInvalidRequest, "invalid category")
		return
	}

	ctx, cancel := storeContext(c)
	defer cancel()

	path, err := h.storage.Save(ctx, data, storage.SaveOptions{
		Category:     category,
		Extension:    ext,
		BaseName:     utils.ContentHash(data),
		ContentType:  mimeType,
		Immutable:    true,
		SkipIfExists: true,
	})
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"request_id": RequestID(c),
			"category":   category,
		}).Error("failed to store upload")
		InternalError(c, "failed to store file")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"path":        path,
		"url":         h.publicURL(path),
		"contentType": mimeType,
		"size":        len(data),
	})
}
