package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ali-hasan-sss/syria-store-api/config"
	"github.com/ali-hasan-sss/syria-store-api/internal/types"
)

var _ Service = (*MinioService)(nil)

type Service interface {
	Upload(ctx context.Context, originalName, contentType string, reader io.Reader, size int64) (*types.UploadedFile, error)
	Delete(ctx context.Context, publicID string) error
}

// MinioService stores uploaded images in an S3-compatible bucket.
type MinioService struct {
	client   *minio.Client
	bucket   string
	endpoint string
	useSSL   bool
	logger   *slog.Logger
}

func NewMinioService(cfg config.Config, logger *slog.Logger) (*MinioService, error) {
	st := cfg.Storage
	client, err := minio.New(st.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(st.AccessKey, st.SecretKey, ""),
		Secure: st.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &MinioService{
		client:   client,
		bucket:   st.Bucket,
		endpoint: st.Endpoint,
		useSSL:   st.UseSSL,
		logger:   logger,
	}, nil
}

// EnsureBucket creates the bucket on first boot.
func (s *MinioService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// Upload streams one file into the bucket under a generated object name.
// The object name doubles as the public ID used for later deletion.
func (s *MinioService) Upload(ctx context.Context, originalName, contentType string, reader io.Reader, size int64) (*types.UploadedFile, error) {
	objectName := uuid.NewString() + filepath.Ext(originalName)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object %s: %w", objectName, err)
	}

	s.logger.InfoContext(ctx, "File uploaded",
		slog.String("object", objectName),
		slog.String("original_name", originalName),
		slog.Int64("size", size))

	return &types.UploadedFile{
		ImageURL:     s.publicURL(objectName),
		PublicID:     objectName,
		OriginalName: originalName,
	}, nil
}

func (s *MinioService) Delete(ctx context.Context, publicID string) error {
	err := s.client.RemoveObject(ctx, s.bucket, publicID, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", publicID, err)
	}
	return nil
}

func (s *MinioService) publicURL(objectName string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   s.endpoint,
		Path:   "/" + s.bucket + "/" + objectName,
	}).String()
}
