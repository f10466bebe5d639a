package storage

import (
	"fmt"
	"labsite/internal/config"
	"strings"
)

// NewR2Storage talks to Cloudflare R2 through its S3 compatible API. The
// endpoint is derived from the account id when not given explicitly.
func NewR2Storage(cfg config.Config) (Storage, error) {
	endpoint := strings.TrimSpace(cfg.StorageR2Endpoint)
	if endpoint == "" {
		accountID := strings.TrimSpace(cfg.StorageR2AccountID)
		if accountID == "" {
			return nil, fmt.Errorf("storage: missing R2 endpoint or account id")
		}
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	}

	region := strings.TrimSpace(cfg.StorageR2Region)
	if region == "" {
		region = "auto"
	}

	store, err := newS3Storage("R2", s3Settings{
		Bucket:          strings.TrimSpace(cfg.StorageR2Bucket),
		Prefix:          cfg.StorageR2Prefix,
		Region:          region,
		Endpoint:        endpoint,
		AccessKeyID:     strings.TrimSpace(cfg.StorageR2AccessKeyID),
		SecretAccessKey: strings.TrimSpace(cfg.StorageR2SecretAccessKey),
		ForcePathStyle:  true,
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}
