package persistence

import (
	"context"
	"errors"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/condoplex/tickets-service/internal/config"
)

// ObjectStore wraps the MinIO client used for ticket attachments.
type ObjectStore struct {
	Client *minio.Client
	Bucket string
}

// NewObjectStore connects to the object store and ensures the bucket exists.
func NewObjectStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
		logger.Info("created attachment bucket", zap.String("bucket", cfg.Bucket))
	}

	logger.Info("connected to object store", zap.String("endpoint", cfg.Endpoint))
	return &ObjectStore{Client: client, Bucket: cfg.Bucket}, nil
}

// Ping verifies object store connectivity.
func (o *ObjectStore) Ping(ctx context.Context) error {
	if o == nil || o.Client == nil {
		return errors.New("object store client not configured")
	}
	_, err := o.Client.BucketExists(ctx, o.Bucket)
	return err
}
