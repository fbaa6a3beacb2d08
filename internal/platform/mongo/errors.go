package mongo

import (
	"errors"
	"fmt"

	"github.com/phrazzld/feed-api/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
)

// MapError translates driver errors into store sentinels. Unknown errors are
// returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	}

	return err
}
