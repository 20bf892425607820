package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anonmap/anonmap-backend/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// AvatarStore wraps a MinIO client for the public avatar bucket. Uploaded
// objects are world-readable; the resulting URL is stored on the profile
// record and immutable afterwards.
type AvatarStore struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewAvatarStore connects to the object store, ensures the avatar bucket
// exists and carries a public-read policy.
func NewAvatarStore(cfg *config.StorageConfig) (*AvatarStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	publicBase := cfg.PublicBaseURL
	if publicBase == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicBase = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}

	store := &AvatarStore{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: publicBase,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := store.ensureBucket(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *AvatarStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("error creating bucket %s: %w", s.bucket, err)
		}
		slog.Info("created bucket", "bucket", s.bucket)
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": "*"},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, s.bucket)

	if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
		// Not fatal: a pre-provisioned bucket may forbid policy changes.
		slog.Warn("failed to set public read policy", "bucket", s.bucket, "error", err)
	}

	return nil
}

// Upload stores the file at filePath under objectName and returns its
// public retrieval URL.
func (s *AvatarStore) Upload(ctx context.Context, objectName, filePath, contentType string) (string, error) {
	_, err := s.client.FPutObject(ctx, s.bucket, objectName, filePath,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to bucket %s: %w", objectName, s.bucket, err)
	}
	return fmt.Sprintf("%s/%s/%s", s.publicBase, s.bucket, objectName), nil
}
