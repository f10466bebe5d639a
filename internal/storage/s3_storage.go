package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"labsite/internal/config"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// s3Settings 是 S3 及兼容服务（MinIO、R2）共用的连接参数
type s3Settings struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	ForcePathStyle  bool
}

func (s s3Settings) validate(name string) error {
	switch {
	case s.Bucket == "":
		return fmt.Errorf("storage: missing %s bucket", name)
	case s.Region == "":
		return fmt.Errorf("storage: missing %s region", name)
	case s.AccessKeyID == "" || s.SecretAccessKey == "":
		return fmt.Errorf("storage: missing %s credentials", name)
	}
	return nil
}

type remoteS3Storage struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Storage connects to Amazon S3 or any endpoint speaking its API.
func NewS3Storage(cfg config.Config) (Storage, error) {
	store, err := newS3Storage("S3", s3Settings{
		Bucket:          strings.TrimSpace(cfg.StorageS3Bucket),
		Prefix:          cfg.StorageS3Prefix,
		Region:          strings.TrimSpace(cfg.StorageS3Region),
		Endpoint:        strings.TrimSpace(cfg.StorageS3Endpoint),
		AccessKeyID:     strings.TrimSpace(cfg.StorageS3AccessKeyID),
		SecretAccessKey: strings.TrimSpace(cfg.StorageS3SecretAccessKey),
		SessionToken:    strings.TrimSpace(cfg.StorageS3SessionToken),
		ForcePathStyle:  cfg.StorageS3ForcePathStyle,
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func newS3Storage(name string, settings s3Settings) (*remoteS3Storage, error) {
	if err := settings.validate(name); err != nil {
		return nil, err
	}

	endpoint := settings.Endpoint
	if endpoint != "" && !IsAbsoluteURL(endpoint) {
		endpoint = "https://" + endpoint
	}

	awsCfg := aws.Config{
		Region: settings.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(settings.AccessKeyID, settings.SecretAccessKey, settings.SessionToken),
		),
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = settings.ForcePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &remoteS3Storage{
		client: client,
		bucket: settings.Bucket,
		prefix: trimPrefix(settings.Prefix),
	}, nil
}

func (s *remoteS3Storage) Save(ctx context.Context, data []byte, opts SaveOptions) (string, error) {
	obj, err := resolveObject(ctx, data, opts, s.prefix)
	if err != nil {
		return "", err
	}

	if opts.SkipIfExists {
		_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(obj.Key)})
		if err == nil {
			return obj.Key, nil
		}
		if !isS3NotFound(err) {
			return "", fmt.Errorf("head object: %w", err)
		}
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(obj.Key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(obj.ContentType),
	}
	if obj.CacheControl != "" {
		input.CacheControl = aws.String(obj.CacheControl)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return obj.Key, nil
}

var _ Storage = (*remoteS3Storage)(nil)

func isS3NotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch strings.ToLower(apiErr.ErrorCode()) {
		case "notfound", "nosuchkey", "404":
			return true
		}
	}
	return false
}
