package repository

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// StorageRepository keeps the raw uploaded documents in object storage so the
// analysis workflow can re-fetch them out-of-band.
type StorageRepository interface {
	Upload(ctx context.Context, objectName string, data []byte, contentType string) error
}

type minioRepository struct {
	client *minio.Client
	bucket string
	logger zerolog.Logger
}

func NewMinIORepository(endpoint, accessKey, secretKey, bucket string, useSSL bool, logger zerolog.Logger) (StorageRepository, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	logger.Info().
		Str("endpoint", endpoint).
		Str("bucket", bucket).
		Bool("ssl", useSSL).
		Msg("Connected to MinIO")

	return &minioRepository{
		client: client,
		bucket: bucket,
		logger: logger,
	}, nil
}

func (r *minioRepository) Upload(ctx context.Context, objectName string, data []byte, contentType string) error {
	_, err := r.client.PutObject(
		ctx,
		r.bucket,
		objectName,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}

	r.logger.Debug().
		Str("bucket", r.bucket).
		Str("object", objectName).
		Int("size", len(data)).
		Msg("Object stored")

	return nil
}
