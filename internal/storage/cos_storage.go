package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"labsite/internal/config"
	"net/http"
	"net/url"
	"strings"

	"github.com/tencentyun/cos-go-sdk-v5"
)

type cosStorage struct {
	client *cos.Client
	prefix string
}

// NewCOSStorage builds a Tencent COS client for the configured bucket URL.
func NewCOSStorage(cfg config.Config) (Storage, error) {
	bucketURL := strings.TrimSpace(cfg.StorageCOSBucketURL)
	if bucketURL == "" {
		return nil, errors.New("storage: missing COS bucket URL")
	}
	parsed, err := url.Parse(bucketURL)
	if err != nil {
		return nil, fmt.Errorf("storage: parse COS bucket URL: %w", err)
	}
	secretID := strings.TrimSpace(cfg.StorageCOSSecretID)
	secretKey := strings.TrimSpace(cfg.StorageCOSSecretKey)
	if secretID == "" || secretKey == "" {
		return nil, errors.New("storage: missing COS credentials")
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: parsed}, &http.Client{
		Transport: &cos.AuthorizationTransport{SecretID: secretID, SecretKey: secretKey},
	})
	return &cosStorage{client: client, prefix: trimPrefix(cfg.StorageCOSPrefix)}, nil
}

func (s *cosStorage) Save(ctx context.Context, data []byte, opts SaveOptions) (string, error) {
	obj, err := resolveObject(ctx, data, opts, s.prefix)
	if err != nil {
		return "", err
	}

	if opts.SkipIfExists {
		resp, err := s.client.Object.Head(ctx, obj.Key, nil)
		closeCOSResponse(resp)
		if err == nil {
			return obj.Key, nil
		}
		if !cos.IsNotFoundError(err) {
			return "", fmt.Errorf("head object: %w", err)
		}
	}

	resp, err := s.client.Object.Put(ctx, obj.Key, bytes.NewReader(data), &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType:  obj.ContentType,
			CacheControl: obj.CacheControl,
		},
	})
	closeCOSResponse(resp)
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return obj.Key, nil
}

func closeCOSResponse(resp *cos.Response) {
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
}

var _ Storage = (*cosStorage)(nil)
