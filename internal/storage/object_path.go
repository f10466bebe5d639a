package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"
)

// immutableCacheControl 用于内容寻址的文件：同一路径的内容永远不变
const immutableCacheControl = "public, max-age=31536000, immutable"

var errEmptyPayload = errors.New("empty payload")

// mediaObject 是一次 Save 解析出的目标对象。
type mediaObject struct {
	Key          string
	ContentType  string
	CacheControl string
}

// resolveObject 校验负载并计算对象键和元数据，所有驱动共用。
func resolveObject(ctx context.Context, data []byte, opts SaveOptions, prefix string) (mediaObject, error) {
	if len(data) == 0 {
		return mediaObject{}, errEmptyPayload
	}
	if err := ctx.Err(); err != nil {
		return mediaObject{}, err
	}

	at := opts.Time
	if at.IsZero() {
		at = time.Now()
	}
	obj := mediaObject{
		Key:         objectKey(opts.Category, opts.BaseName, opts.Extension, at.UTC()),
		ContentType: strings.TrimSpace(opts.ContentType),
	}
	if prefix != "" {
		obj.Key = path.Join(prefix, obj.Key)
	}
	if obj.ContentType == "" {
		obj.ContentType = contentTypeByExtension(opts.Extension)
	}
	if opts.Immutable {
		obj.CacheControl = immutableCacheControl
	}
	return obj, nil
}

func objectKey(category, baseName, ext string, at time.Time) string {
	category = sanitizePathSegment(category)
	if category == "" {
		category = "misc"
	}
	base := strings.Trim(sanitizePathSegment(strings.ReplaceAll(strings.TrimSpace(baseName), " ", "-")), "-_")
	if base == "" {
		base = fmt.Sprintf("%d", at.UnixNano())
	}
	return path.Join(category, at.Format("2006/01/02"), base+"."+normalizeExtension(ext))
}

func sanitizePathSegment(value string) string {
	value = strings.TrimSpace(value)
	var builder strings.Builder
	builder.Grow(len(value))
	for i := 0; i < len(value); i++ {
		ch := value[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9', ch == '-', ch == '_':
			builder.WriteByte(ch)
		case ch >= 'A' && ch <= 'Z':
			builder.WriteByte(ch + 'a' - 'A')
		}
	}
	return builder.String()
}

func normalizeExtension(ext string) string {
	if normalized := sanitizePathSegment(strings.TrimPrefix(strings.TrimSpace(ext), ".")); normalized != "" {
		return normalized
	}
	return "bin"
}

func contentTypeByExtension(ext string) string {
	if typeName := mime.TypeByExtension("." + normalizeExtension(ext)); typeName != "" {
		return typeName
	}
	return "application/octet-stream"
}

// trimPrefix 去掉对象前缀两端的斜杠
func trimPrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}

// SanitizeCategory lowercases the category and keeps alphanumeric, dash and
// underscore characters only. An empty result means the category is unusable.
func SanitizeCategory(value string) string {
	return sanitizePathSegment(value)
}
