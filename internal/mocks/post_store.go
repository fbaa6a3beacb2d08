package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/feed-api/internal/domain"
	"github.com/phrazzld/feed-api/internal/store"
)

// MockPostStore implements store.PostStore for testing. Creators are
// populated from Users when it is set.
type MockPostStore struct {
	CreateFn         func(ctx context.Context, post *domain.Post) error
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	GetWithCreatorFn func(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	ListFn           func(ctx context.Context, page store.Page) ([]*domain.Post, error)
	CountFn          func(ctx context.Context) (int, error)
	UpdateFn         func(ctx context.Context, post *domain.Post) error
	DeleteFn         func(ctx context.Context, id uuid.UUID) error

	Users *MockUserStore

	mu    sync.Mutex
	posts map[uuid.UUID]*domain.Post
}

var _ store.PostStore = (*MockPostStore)(nil)

// NewMockPostStore creates a new mock store that populates creators from users.
func NewMockPostStore(users *MockUserStore) *MockPostStore {
	return &MockPostStore{Users: users, posts: make(map[uuid.UUID]*domain.Post)}
}

// Seed stores posts directly, bypassing CreateFn.
func (m *MockPostStore) Seed(posts ...*domain.Post) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range posts {
		m.posts[p.ID] = clonePost(p)
	}
}

// Len returns the number of stored posts.
func (m *MockPostStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.posts)
}

// Create implements the PostStore interface
func (m *MockPostStore) Create(ctx context.Context, post *domain.Post) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, post)
	}
	if err := post.Validate(); err != nil {
		return store.ErrInvalidEntity
	}
	if m.Users != nil && m.Users.Get(post.CreatorID) == nil {
		return store.ErrInvalidEntity
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[post.ID] = clonePost(post)
	return nil
}

// GetByID implements the PostStore interface
func (m *MockPostStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, store.ErrPostNotFound
	}
	return clonePost(p), nil
}

// GetWithCreator implements the PostStore interface
func (m *MockPostStore) GetWithCreator(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	if m.GetWithCreatorFn != nil {
		return m.GetWithCreatorFn(ctx, id)
	}

	p, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m.populate(p)
	return p, nil
}

// List implements the PostStore interface
func (m *MockPostStore) List(ctx context.Context, page store.Page) ([]*domain.Post, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, page)
	}

	m.mu.Lock()
	all := make([]*domain.Post, 0, len(m.posts))
	for _, p := range m.posts {
		all = append(all, clonePost(p))
	}
	m.mu.Unlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	start := page.Offset()
	if start >= len(all) {
		return []*domain.Post{}, nil
	}
	end := min(start+page.Size, len(all))

	result := all[start:end]
	for _, p := range result {
		m.populate(p)
	}
	return result, nil
}

// Count implements the PostStore interface
func (m *MockPostStore) Count(ctx context.Context) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	return m.Len(), nil
}

// Update implements the PostStore interface
func (m *MockPostStore) Update(ctx context.Context, post *domain.Post) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, post)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.posts[post.ID]
	if !ok {
		return store.ErrPostNotFound
	}
	existing.Title = post.Title
	existing.ImageURL = post.ImageURL
	existing.Content = post.Content
	existing.UpdatedAt = post.UpdatedAt
	return nil
}

// Delete implements the PostStore interface
func (m *MockPostStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return store.ErrPostNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *MockPostStore) populate(p *domain.Post) {
	if m.Users != nil {
		p.Creator = m.Users.Get(p.CreatorID)
	}
}

func clonePost(p *domain.Post) *domain.Post {
	clone := *p
	clone.Creator = nil
	return &clone
}
