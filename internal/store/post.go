package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/feed-api/internal/domain"
)

// Page selects a window of posts. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of posts preceding the page.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// PostStore defines the interface for post data persistence.
type PostStore interface {
	// Create saves a new post.
	// Returns ErrInvalidEntity if the creator does not exist (where the
	// backend can detect it).
	Create(ctx context.Context, post *domain.Post) error

	// GetByID retrieves a post without resolving its creator.
	// Returns ErrPostNotFound if the post does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)

	// GetWithCreator retrieves a post with Creator populated.
	// Returns ErrPostNotFound if the post does not exist.
	GetWithCreator(ctx context.Context, id uuid.UUID) (*domain.Post, error)

	// List returns one page of posts ordered by creation time, newest first,
	// with creators populated. A page past the end yields an empty slice.
	List(ctx context.Context, page Page) ([]*domain.Post, error)

	// Count returns the total number of stored posts.
	Count(ctx context.Context) (int, error)

	// Update persists title, image URL, content and UpdatedAt.
	// Returns ErrPostNotFound if the post does not exist.
	Update(ctx context.Context, post *domain.Post) error

	// Delete removes a post by ID.
	// Returns ErrPostNotFound if the post does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
