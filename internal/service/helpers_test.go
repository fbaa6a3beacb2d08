package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/phrazzld/feed-api/internal/domain"
	"github.com/phrazzld/feed-api/internal/mocks"
	"github.com/phrazzld/feed-api/internal/service"
	"github.com/phrazzld/feed-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixture wires both services to shared in-memory stores.
type fixture struct {
	users    *mocks.MockUserStore
	posts    *mocks.MockPostStore
	images   *mocks.MockImageStore
	tokens   *mocks.MockJWTService
	accounts service.AccountService
	feed     service.FeedService
}

func newFixture() *fixture {
	users := mocks.NewMockUserStore()
	posts := mocks.NewMockPostStore(users)
	images := mocks.NewMockImageStore()
	tokens := &mocks.MockJWTService{Token: "signed-token"}
	hasher := &mocks.MockPasswordHasher{}

	return &fixture{
		users:    users,
		posts:    posts,
		images:   images,
		tokens:   tokens,
		accounts: service.NewAccountService(users, hasher, hasher, tokens, discardLogger()),
		feed:     service.NewFeedService(posts, users, images, discardLogger()),
	}
}

// seedUser stores a user and returns a context authenticated as them.
func (f *fixture) seedUser(t *testing.T, email string) (*domain.User, context.Context) {
	t.Helper()
	user, err := domain.NewUser(email, "hashed:pw1", "Tester")
	require.NoError(t, err)
	f.users.Seed(user)
	return user, auth.WithIdentity(context.Background(), auth.Identity{UserID: user.ID, Email: email})
}
