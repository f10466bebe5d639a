package storage

import (
	"context"
	"fmt"
	"labsite/internal/config"
	"strings"
	"time"
)

const (
	// TypeLocal 表示本地文件系统存储。
	TypeLocal = "local"
	// TypeS3 表示 Amazon S3 或兼容的存储后端。
	TypeS3 = "s3"
	// TypeOSS 表示阿里云 OSS 存储。
	TypeOSS = "oss"
	// TypeCOS 表示腾讯云 COS 存储。
	TypeCOS = "cos"
	// TypeR2 表示 Cloudflare R2 存储。
	TypeR2 = "r2"
)

// MaxUploadBytes caps a single media upload.
const MaxUploadBytes = 10 << 20

// SaveOptions 描述一个媒体文件的存放位置和元数据。
//
// 对象键为 category/yyyy/mm/dd/basename.ext；BaseName 为空时使用纳秒时间戳。
// ContentType 为空时按扩展名推断。Immutable 表示内容寻址的文件，远端存储会带上长期缓存头。
type SaveOptions struct {
	Category     string
	Extension    string
	BaseName     string
	ContentType  string
	Immutable    bool
	SkipIfExists bool
	// Time 决定日期目录，零值时取当前 UTC 时间
	Time time.Time
}

// Storage 保存上传的媒体文件，返回后端内的对象路径（本地存储为相对路径）。
type Storage interface {
	Save(ctx context.Context, data []byte, opts SaveOptions) (string, error)
}

// LocalBaseDirProvider 由暴露可通过 HTTP 直接提供服务的本地目录的存储驱动实现。
type LocalBaseDirProvider interface {
	LocalBaseDir() string
}

// NewStorage 根据配置实例化存储后端。
func NewStorage(cfg config.Config) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.StorageType)) {
	case "", TypeLocal:
		return NewLocalStorage(cfg.StorageLocalDir)
	case TypeS3:
		return NewS3Storage(cfg)
	case TypeOSS:
		return NewOSSStorage(cfg)
	case TypeCOS:
		return NewCOSStorage(cfg)
	case TypeR2:
		return NewR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}

// NormalisePublicBase cleans STORAGE_PUBLIC_BASE_URL: absolute URLs lose their
// trailing slash, anything else becomes a rooted path.
func NormalisePublicBase(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = "/files"
	}
	if !IsAbsoluteURL(trimmed) && !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}

// PublicURL joins a stored path onto the public base.
func PublicURL(base, path string) string {
	trimmed := strings.TrimSpace(path)
	switch {
	case trimmed == "":
		return ""
	case IsAbsoluteURL(trimmed):
		return trimmed
	}
	return NormalisePublicBase(base) + "/" + strings.TrimLeft(trimmed, "/")
}

func IsAbsoluteURL(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}
