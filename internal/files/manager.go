package files

import (
	"bytes"
	"context"
	"io"

	"github.com/minio/minio-go/v7"

	"github.com/condoplex/tickets-service/internal/persistence"
)

// Manager stores and retrieves attachment blobs by key. It is a pass-through
// to the external object store; all naming decisions happen in the caller.
type Manager interface {
	Upload(ctx context.Context, key, mimeType string, data []byte) error
	Download(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error
}

type objectStoreManager struct {
	client *minio.Client
	bucket string
}

// NewManager returns a Manager backed by the configured object store.
func NewManager(store *persistence.ObjectStore) Manager {
	return &objectStoreManager{client: store.Client, bucket: store.Bucket}
}

func (m *objectStoreManager) Upload(ctx context.Context, key, mimeType string, data []byte) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: mimeType,
	})
	return err
}

func (m *objectStoreManager) Download(ctx context.Context, key string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (m *objectStoreManager) Remove(ctx context.Context, key string) error {
	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}
