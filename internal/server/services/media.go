package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	sc "github.com/streamhub/authd/internal/server/config"
)

// MediaService uploads user assets (avatars, cover images) to an
// S3-compatible object store and hands back a stable public URL plus the
// storage key. The credential core treats it as a black box.
type MediaService struct {
	config *sc.Config
}

// NewMediaService constructs a MediaService from server config.
func NewMediaService(config *sc.Config) *MediaService {
	return &MediaService{config: config}
}

// RandomStorageKey builds a date-partitioned object key for a new upload.
func RandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("users/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *MediaService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKey,
			s.config.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

// Upload stores the stream under a fresh key and returns (url, key).
// Failures are opaque to callers; there is nothing to retry server-side.
func (s *MediaService) Upload(ctx context.Context, body io.Reader, contentType string) (string, string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", "", fmt.Errorf("media client init: %w", err)
	}

	bucket := s.config.S3Bucket
	key := RandomStorageKey()

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
	})
	if err != nil {
		return "", "", fmt.Errorf("media upload: %w", err)
	}

	return s.PublicURL(key), key, nil
}

// PublicURL resolves a storage key to the URL served to clients.
func (s *MediaService) PublicURL(key string) string {
	return strings.TrimRight(s.config.S3PublicBaseURL, "/") + "/" + key
}
