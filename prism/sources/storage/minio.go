package storage

import (
	"bytes"
	"context"
	"crypto/md5"
	"fmt"
	"time"

	"prism/prism/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ImageArchive stores provider-generated image bytes so the chat log can hold
// a short object URL instead of a multi-megabyte data URL. Optional: callers
// get a nil archive when MinIO is not configured.
type ImageArchive struct {
	client *minio.Client
	bucket string
	base   string
}

func NewImageArchive(cfg config.Config) (*ImageArchive, error) {
	if cfg.MinIOEndpoint == "" {
		return nil, nil
	}
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: false,
		},
	)
	if err != nil {
		return nil, err
	}
	exists, err := client.BucketExists(context.Background(), cfg.MinIOBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return &ImageArchive{
		client: client,
		bucket: cfg.MinIOBucket,
		base:   fmt.Sprintf("http://%s/%s", cfg.MinIOEndpoint, cfg.MinIOBucket),
	}, nil
}

// Store uploads the image bytes under a prompt-derived key and returns the
// object URL.
func (a *ImageArchive) Store(ctx context.Context, prompt string, data []byte, contentType string) (string, error) {
	hash := fmt.Sprintf("%x", md5.Sum([]byte(fmt.Sprintf("%s-%d", prompt, time.Now().UnixNano()))))
	key := fmt.Sprintf("generated/%s.jpg", hash)

	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s", a.base, key), nil
}
