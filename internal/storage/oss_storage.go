package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"labsite/internal/config"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

type ossStorage struct {
	bucket *oss.Bucket
	prefix string
}

// NewOSSStorage opens an Aliyun OSS bucket.
func NewOSSStorage(cfg config.Config) (Storage, error) {
	endpoint := strings.TrimSpace(cfg.StorageOSSEndpoint)
	bucketName := strings.TrimSpace(cfg.StorageOSSBucket)
	accessKey := strings.TrimSpace(cfg.StorageOSSAccessKeyID)
	secretKey := strings.TrimSpace(cfg.StorageOSSAccessKeySecret)
	switch {
	case endpoint == "":
		return nil, errors.New("storage: missing OSS endpoint")
	case bucketName == "":
		return nil, errors.New("storage: missing OSS bucket")
	case accessKey == "" || secretKey == "":
		return nil, errors.New("storage: missing OSS credentials")
	}

	client, err := oss.New(endpoint, accessKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("storage: create OSS client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("storage: open OSS bucket: %w", err)
	}
	return &ossStorage{bucket: bucket, prefix: trimPrefix(cfg.StorageOSSPrefix)}, nil
}

func (s *ossStorage) Save(ctx context.Context, data []byte, opts SaveOptions) (string, error) {
	obj, err := resolveObject(ctx, data, opts, s.prefix)
	if err != nil {
		return "", err
	}

	if opts.SkipIfExists {
		exists, err := s.bucket.IsObjectExist(obj.Key, oss.WithContext(ctx))
		if err != nil {
			return "", fmt.Errorf("check object: %w", err)
		}
		if exists {
			return obj.Key, nil
		}
	}

	options := []oss.Option{oss.WithContext(ctx), oss.ContentType(obj.ContentType)}
	if obj.CacheControl != "" {
		options = append(options, oss.CacheControl(obj.CacheControl))
	}
	if err := s.bucket.PutObject(obj.Key, bytes.NewReader(data), options...); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return obj.Key, nil
}

var _ Storage = (*ossStorage)(nil)
