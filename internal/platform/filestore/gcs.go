package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStore keeps files as objects in a Google Cloud Storage bucket. Object
// names equal the cleaned file names.
type GCSStore struct {
	client *storage.Client
	bucket string
}

var _ Store = (*GCSStore)(nil)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty,
// Application Default Credentials are used.
func NewGCSClient(ctx context.Context, credsPath string, opts ...option.ClientOption) (*storage.Client, error) {
	if credsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credsPath))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return client, nil
}

// NewGCSStore creates a store writing to bucket through client.
func NewGCSStore(client *storage.Client, bucket string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket}
}

func (s *GCSStore) object(name string) (*storage.ObjectHandle, string, error) {
	clean, err := CleanName(name)
	if err != nil {
		return nil, "", err
	}
	return s.client.Bucket(s.bucket).Object(clean), clean, nil
}

// Save uploads r as the object name with a content type derived from the
// file extension.
func (s *GCSStore) Save(ctx context.Context, name string, r io.Reader) error {
	obj, clean, err := s.object(name)
	if err != nil {
		return err
	}

	wc := obj.NewWriter(ctx)
	wc.ContentType = mime.TypeByExtension(path.Ext(clean))
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return fmt.Errorf("failed to upload %q to bucket %q: %w", clean, s.bucket, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to finalize %q in bucket %q: %w", clean, s.bucket, err)
	}
	return nil
}

// Open streams the object name.
func (s *GCSStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	obj, clean, err := s.object(name)
	if err != nil {
		return nil, err
	}

	rc, err := obj.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("failed to read %q from bucket %q: %w", clean, s.bucket, err)
	}
	return rc, nil
}

// Delete removes the object name.
func (s *GCSStore) Delete(ctx context.Context, name string) error {
	obj, clean, err := s.object(name)
	if err != nil {
		return err
	}

	if err := obj.Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return ErrNotExist
		}
		return fmt.Errorf("failed to delete %q from bucket %q: %w", clean, s.bucket, err)
	}
	return nil
}
