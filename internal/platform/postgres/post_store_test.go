package postgres_test

import (
	"context"
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

var postWithCreatorColumns = []string{
	"id", "title", "image_url", "content", "creator_id", "created_at", "updated_at",
	"user_id", "email", "name", "status", "user_created_at", "user_updated_at",
}

func newPostStore(t *testing.T) (*postgres.PostgresPostStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return postgres.NewPostgresPostStore(db, nil), mock
}

func testPost(t *testing.T) *domain.Post {
	t.Helper()
	post, err := domain.NewPost(uuid.New(), "First post", "images/a.png", "Hello there")
	require.NoError(t, err)
	return post
}

func TestPostgresPostStore_Create(t *testing.T) {
	insert := regexp.QuoteMeta("INSERT INTO posts (id, title, image_url, content, creator_id, created_at, updated_at)")

	t.Run("success", func(t *testing.T) {
		s, mock := newPostStore(t)
		post := testPost(t)

		mock.ExpectExec(insert).
			WithArgs(post.ID, post.Title, post.ImageURL, post.Content, post.CreatorID,
				sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(context.Background(), post))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown creator", func(t *testing.T) {
		s, mock := newPostStore(t)
		mock.ExpectExec(insert).WillReturnError(newPgError("23503", "posts_creator_id_fkey"))

		err := s.Create(context.Background(), testPost(t))
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("invalid post", func(t *testing.T) {
		s, mock := newPostStore(t)
		post := testPost(t)
		post.Title = ""

		assert.ErrorIs(t, s.Create(context.Background(), post), store.ErrInvalidEntity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresPostStore_GetByID(t *testing.T) {
	query := regexp.QuoteMeta("FROM posts WHERE id = $1")
	s, mock := newPostStore(t)
	post := testPost(t)

	mock.ExpectQuery(query).
		WithArgs(post.ID).
		WillReturnRows(sqlmock.NewRows(postWithCreatorColumns[:7]).
			AddRow(post.ID.String(), post.Title, post.ImageURL, post.Content,
				post.CreatorID.String(), post.CreatedAt, post.UpdatedAt))

	got, err := s.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
	assert.Equal(t, post.CreatorID, got.CreatorID)
	assert.Nil(t, got.Creator)

	mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows(postWithCreatorColumns[:7]))
	_, err = s.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrPostNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPostStore_GetWithCreator(t *testing.T) {
	query := regexp.QuoteMeta("JOIN users u ON u.id = p.creator_id WHERE p.id = $1")
	s, mock := newPostStore(t)
	post := testPost(t)
	now := time.Now().UTC()

	mock.ExpectQuery(query).
		WithArgs(post.ID).
		WillReturnRows(sqlmock.NewRows(postWithCreatorColumns).
			AddRow(post.ID.String(), post.Title, post.ImageURL, post.Content,
				post.CreatorID.String(), post.CreatedAt, post.UpdatedAt,
				post.CreatorID.String(), "c@example.com", "Creator", "I am new!", now, now))

	got, err := s.GetWithCreator(context.Background(), post.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Creator)
	assert.Equal(t, post.CreatorID, got.Creator.ID)
	assert.Equal(t, "Creator", got.Creator.Name)
	assert.Empty(t, got.Creator.HashedPassword)
	assert.Nil(t, got.Creator.PostIDs)

	mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows(postWithCreatorColumns))
	_, err = s.GetWithCreator(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrPostNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPostStore_List(t *testing.T) {
	query := regexp.QuoteMeta("ORDER BY p.created_at DESC, p.id DESC LIMIT $1 OFFSET $2")

	t.Run("returns the requested page newest first", func(t *testing.T) {
		s, mock := newPostStore(t)
		creator := uuid.New()
		newer, older := uuid.New(), uuid.New()
		now := time.Now().UTC()

		mock.ExpectQuery(query).
			WithArgs(2, 2).
			WillReturnRows(sqlmock.NewRows(postWithCreatorColumns).
				AddRow(newer.String(), "Newer", "", "Body text", creator.String(), now, now,
					creator.String(), "c@example.com", "", "I am new!", now, now).
				AddRow(older.String(), "Older", "", "Body text", creator.String(),
					now.Add(-time.Hour), now.Add(-time.Hour),
					creator.String(), "c@example.com", "", "I am new!", now, now))

		posts, err := s.List(context.Background(), store.Page{Number: 2, Size: 2})
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, newer, posts[0].ID)
		assert.Equal(t, older, posts[1].ID)
		assert.Equal(t, creator, posts[1].Creator.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		s, mock := newPostStore(t)
		mock.ExpectQuery(query).
			WithArgs(2, 8).
			WillReturnRows(sqlmock.NewRows(postWithCreatorColumns))

		posts, err := s.List(context.Background(), store.Page{Number: 5, Size: 2})
		require.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})
}

func TestPostgresPostStore_Count(t *testing.T) {
	s, mock := newPostStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM posts")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPostStore_Update(t *testing.T) {
	update := regexp.QuoteMeta("UPDATE posts SET title = $1, image_url = $2, content = $3, updated_at = $4 WHERE id = $5")
	s, mock := newPostStore(t)
	post := testPost(t)
	post.ApplyUpdate("Edited title", "", "Edited body", time.Now())

	mock.ExpectExec(update).
		WithArgs("Edited title", post.ImageURL, "Edited body", sqlmock.AnyArg(), post.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Update(context.Background(), post))

	mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.Update(context.Background(), post), store.ErrPostNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPostStore_Delete(t *testing.T) {
	del := regexp.QuoteMeta("DELETE FROM posts WHERE id = $1")
	s, mock := newPostStore(t)
	id := uuid.New()

	mock.ExpectExec(del).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Delete(context.Background(), id))

	mock.ExpectExec(del).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.Delete(context.Background(), id), store.ErrPostNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
