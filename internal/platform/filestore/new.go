package filestore

import (
	"context"
	"fmt"

	"github.com/phrazzld/feed-api/internal/config"
)

// New builds the store selected by cfg.Backend. The returned close function
// releases any client the store holds and is never nil.
func New(ctx context.Context, cfg config.StorageConfig) (Store, func() error, error) {
	switch cfg.Backend {
	case "local", "":
		s, err := NewLocalStore(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() error { return nil }, nil
	case "gcs":
		client, err := NewGCSClient(ctx, cfg.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		return NewGCSStore(client, cfg.Bucket), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
