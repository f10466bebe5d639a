package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage keeps media under a directory that the router serves
// statically at STORAGE_PUBLIC_BASE_URL.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage creates the directory when it is missing.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		baseDir = "datas/media"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// LocalBaseDir returns the directory the router should serve.
func (s *LocalStorage) LocalBaseDir() string {
	return s.baseDir
}

// Save returns a slash separated path relative to the base directory.
func (s *LocalStorage) Save(ctx context.Context, data []byte, opts SaveOptions) (string, error) {
	obj, err := resolveObject(ctx, data, opts, "")
	if err != nil {
		return "", err
	}
	absPath := filepath.Join(s.baseDir, filepath.FromSlash(obj.Key))

	if opts.SkipIfExists {
		_, err := os.Stat(absPath)
		if err == nil {
			return obj.Key, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("stat file: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}
	// 先写临时文件再改名，避免静态服务读到半个文件
	tmp, err := os.CreateTemp(filepath.Dir(absPath), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("chmod file: %w", err)
	}
	if err := os.Rename(tmp.Name(), absPath); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("rename file: %w", err)
	}

	return obj.Key, nil
}

var (
	_ Storage              = (*LocalStorage)(nil)
	_ LocalBaseDirProvider = (*LocalStorage)(nil)
)
