package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/feed-api/internal/domain"
	"github.com/phrazzld/feed-api/internal/platform/postgres"
	"github.com/phrazzld/feed-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "email", "password", "name", "status", "created_at", "updated_at"}

func newUserStore(t *testing.T) (*postgres.PostgresUserStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return postgres.NewPostgresUserStore(db, nil), mock
}

func testUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser("test@example.com", "$2a$12$hash", "Test User")
	require.NoError(t, err)
	return user
}

func TestPostgresUserStore_Create(t *testing.T) {
	insert := regexp.QuoteMeta("INSERT INTO users (id, email, password, name, status, created_at, updated_at)")

	t.Run("success", func(t *testing.T) {
		s, mock := newUserStore(t)
		user := testUser(t)

		mock.ExpectExec(insert).
			WithArgs(user.ID, user.Email, user.HashedPassword, user.Name, user.Status,
				sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(context.Background(), user))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		s, mock := newUserStore(t)
		user := testUser(t)

		mock.ExpectExec(insert).WillReturnError(newPgError("23505", "users_email_key"))

		err := s.Create(context.Background(), user)
		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid entity skips the database", func(t *testing.T) {
		s, mock := newUserStore(t)
		user := testUser(t)
		user.HashedPassword = ""

		err := s.Create(context.Background(), user)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver failure is wrapped", func(t *testing.T) {
		s, mock := newUserStore(t)
		cause := errors.New("connection reset")
		mock.ExpectExec(insert).WillReturnError(cause)

		err := s.Create(context.Background(), testUser(t))
		var storeErr *store.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "create", storeErr.Operation)
		assert.ErrorIs(t, err, cause)
	})
}

func TestPostgresUserStore_GetByID(t *testing.T) {
	selectUser := regexp.QuoteMeta("FROM users WHERE id = $1")
	selectRefs := regexp.QuoteMeta("SELECT post_id FROM user_posts WHERE user_id = $1 ORDER BY position")

	t.Run("loads user and ordered post references", func(t *testing.T) {
		s, mock := newUserStore(t)
		id := uuid.New()
		now := time.Now().UTC()
		first, second := uuid.New(), uuid.New()

		mock.ExpectQuery(selectUser).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(id.String(), "a@example.com", "hash", "Ann", "I am new!", now, now))
		mock.ExpectQuery(selectRefs).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"post_id"}).
				AddRow(first.String()).
				AddRow(second.String()))

		user, err := s.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "a@example.com", user.Email)
		assert.Equal(t, "hash", user.HashedPassword)
		assert.Equal(t, []uuid.UUID{first, second}, user.PostIDs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no references yields an empty list", func(t *testing.T) {
		s, mock := newUserStore(t)
		id := uuid.New()
		now := time.Now().UTC()

		mock.ExpectQuery(selectUser).
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(id.String(), "a@example.com", "hash", "", "I am new!", now, now))
		mock.ExpectQuery(selectRefs).
			WillReturnRows(sqlmock.NewRows([]string{"post_id"}))

		user, err := s.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.NotNil(t, user.PostIDs)
		assert.Empty(t, user.PostIDs)
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newUserStore(t)
		mock.ExpectQuery(selectUser).WillReturnRows(sqlmock.NewRows(userColumns))

		_, err := s.GetByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresUserStore_GetByEmail(t *testing.T) {
	s, mock := newUserStore(t)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(id.String(), "a@example.com", "hash", "", "busy", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM user_posts")).
		WillReturnRows(sqlmock.NewRows([]string{"post_id"}))

	user, err := s.GetByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "busy", user.Status)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("missing@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err = s.GetByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserStore_Update(t *testing.T) {
	update := regexp.QuoteMeta("UPDATE users SET name = $1, status = $2, updated_at = $3 WHERE id = $4")

	s, mock := newUserStore(t)
	user := testUser(t)
	user.Status = "Working"

	mock.ExpectExec(update).
		WithArgs(user.Name, "Working", sqlmock.AnyArg(), user.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Update(context.Background(), user))

	mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.Update(context.Background(), user), store.ErrUserNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserStore_AddPostReference(t *testing.T) {
	insert := regexp.QuoteMeta("INSERT INTO user_posts (user_id, post_id)")
	userID, postID := uuid.New(), uuid.New()

	s, mock := newUserStore(t)
	mock.ExpectExec(insert).
		WithArgs(userID, postID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.AddPostReference(context.Background(), userID, postID))

	mock.ExpectExec(insert).WillReturnError(newPgError("23503", "user_posts_user_id_fkey"))
	assert.ErrorIs(t, s.AddPostReference(context.Background(), userID, postID), store.ErrUserNotFound)

	mock.ExpectExec(insert).WillReturnError(newPgError("23503", "user_posts_post_id_fkey"))
	err := s.AddPostReference(context.Background(), userID, postID)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.NotErrorIs(t, err, store.ErrUserNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserStore_RemovePostReference(t *testing.T) {
	remove := regexp.QuoteMeta("DELETE FROM user_posts WHERE user_id = $1 AND post_id = $2")
	exists := regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)")
	userID, postID := uuid.New(), uuid.New()

	t.Run("reference removed", func(t *testing.T) {
		s, mock := newUserStore(t)
		mock.ExpectExec(remove).
			WithArgs(userID, postID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.RemovePostReference(context.Background(), userID, postID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent reference is not an error", func(t *testing.T) {
		s, mock := newUserStore(t)
		mock.ExpectExec(remove).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(exists).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		require.NoError(t, s.RemovePostReference(context.Background(), userID, postID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user", func(t *testing.T) {
		s, mock := newUserStore(t)
		mock.ExpectExec(remove).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(exists).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err := s.RemovePostReference(context.Background(), userID, postID)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
