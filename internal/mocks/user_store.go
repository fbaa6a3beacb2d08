package mocks

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/feed-api/internal/domain"
	"github.com/phrazzld/feed-api/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn              func(ctx context.Context, user *domain.User) error
	GetByIDFn             func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn          func(ctx context.Context, email string) (*domain.User, error)
	UpdateFn              func(ctx context.Context, user *domain.User) error
	AddPostReferenceFn    func(ctx context.Context, userID, postID uuid.UUID) error
	RemovePostReferenceFn func(ctx context.Context, userID, postID uuid.UUID) error

	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{users: make(map[uuid.UUID]*domain.User)}
}

// Seed stores users directly, bypassing CreateFn.
func (m *MockUserStore) Seed(users ...*domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range users {
		m.users[u.ID] = cloneUser(u)
	}
}

// Get returns a copy of the stored user, or nil.
func (m *MockUserStore) Get(id uuid.UUID) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return cloneUser(u)
	}
	return nil
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	if err := user.Validate(); err != nil {
		return store.ErrInvalidEntity
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	m.users[user.ID] = cloneUser(user)
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if u := m.Get(id); u != nil {
		return u, nil
	}
	return nil, store.ErrUserNotFound
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	existing.Name = user.Name
	existing.Status = user.Status
	existing.UpdatedAt = user.UpdatedAt
	return nil
}

// AddPostReference implements the UserStore interface
func (m *MockUserStore) AddPostReference(ctx context.Context, userID, postID uuid.UUID) error {
	if m.AddPostReferenceFn != nil {
		return m.AddPostReferenceFn(ctx, userID, postID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	u.PostIDs = append(u.PostIDs, postID)
	return nil
}

// RemovePostReference implements the UserStore interface
func (m *MockUserStore) RemovePostReference(ctx context.Context, userID, postID uuid.UUID) error {
	if m.RemovePostReferenceFn != nil {
		return m.RemovePostReferenceFn(ctx, userID, postID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	u.PostIDs = slices.DeleteFunc(u.PostIDs, func(id uuid.UUID) bool { return id == postID })
	return nil
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	clone.PostIDs = slices.Clone(u.PostIDs)
	if clone.PostIDs == nil {
		clone.PostIDs = []uuid.UUID{}
	}
	return &clone
}
