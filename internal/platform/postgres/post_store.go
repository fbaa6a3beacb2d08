package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/feed-api/internal/domain"
	"github.com/phrazzld/feed-api/internal/platform/logger"
	"github.com/phrazzld/feed-api/internal/store"
)

// postWithCreatorColumns selects a post joined with its creator. The creator
// is returned without post references; callers needing them load the user.
const postWithCreatorColumns = `
	p.id, p.title, p.image_url, p.content, p.creator_id, p.created_at, p.updated_at,
	u.id, u.email, u.name, u.status, u.created_at, u.updated_at
`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// PostgresPostStore implements the store.PostStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPostStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPostStore creates a new PostgreSQL implementation of the PostStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresPostStore(db store.DBTX, logger *slog.Logger) *PostgresPostStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPostStore{
		db:     db,
		logger: logger.With(slog.String("component", "post_store")),
	}
}

// Ensure PostgresPostStore implements store.PostStore interface
var _ store.PostStore = (*PostgresPostStore)(nil)

// Create implements store.PostStore.Create
func (s *PostgresPostStore) Create(ctx context.Context, post *domain.Post) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := post.Validate(); err != nil {
		log.Warn("post validation failed during create",
			slog.String("error", err.Error()),
			slog.String("post_id", post.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO posts (id, title, image_url, content, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		post.ID,
		post.Title,
		post.ImageURL,
		post.Content,
		post.CreatorID,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create post",
			slog.String("error", err.Error()),
			slog.String("post_id", post.ID.String()),
			slog.String("creator_id", post.CreatorID.String()))
		return store.NewStoreError("post", "create", "insert failed", MapError(err))
	}

	log.Info("post created successfully",
		slog.String("post_id", post.ID.String()),
		slog.String("creator_id", post.CreatorID.String()))
	return nil
}

// GetByID implements store.PostStore.GetByID
func (s *PostgresPostStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, image_url, content, creator_id, created_at, updated_at
		FROM posts
		WHERE id = $1
	`
	var post domain.Post
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID,
		&post.Title,
		&post.ImageURL,
		&post.Content,
		&post.CreatorID,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("post not found", slog.String("post_id", id.String()))
			return nil, store.ErrPostNotFound
		}
		log.Error("failed to get post",
			slog.String("error", err.Error()),
			slog.String("post_id", id.String()))
		return nil, store.NewStoreError("post", "get", "query failed", err)
	}

	return &post, nil
}

// GetWithCreator implements store.PostStore.GetWithCreator
func (s *PostgresPostStore) GetWithCreator(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + postWithCreatorColumns + `
		FROM posts p
		JOIN users u ON u.id = p.creator_id
		WHERE p.id = $1
	`
	post, err := scanPostWithCreator(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("post not found", slog.String("post_id", id.String()))
			return nil, store.ErrPostNotFound
		}
		log.Error("failed to get post with creator",
			slog.String("error", err.Error()),
			slog.String("post_id", id.String()))
		return nil, store.NewStoreError("post", "get_with_creator", "query failed", err)
	}

	return post, nil
}

// List implements store.PostStore.List
// Posts are ordered newest first; id breaks ties so pages are stable.
func (s *PostgresPostStore) List(ctx context.Context, page store.Page) ([]*domain.Post, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + postWithCreatorColumns + `
		FROM posts p
		JOIN users u ON u.id = p.creator_id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := s.db.QueryContext(ctx, query, page.Size, page.Offset())
	if err != nil {
		log.Error("failed to list posts",
			slog.String("error", err.Error()),
			slog.Int("page", page.Number))
		return nil, store.NewStoreError("post", "list", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	posts := []*domain.Post{}
	for rows.Next() {
		post, err := scanPostWithCreator(rows)
		if err != nil {
			return nil, store.NewStoreError("post", "list", "scan failed", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("post", "list", "row iteration failed", err)
	}

	log.Debug("posts listed",
		slog.Int("page", page.Number),
		slog.Int("count", len(posts)))
	return posts, nil
}

// Count implements store.PostStore.Count
func (s *PostgresPostStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count posts",
			slog.String("error", err.Error()))
		return 0, store.NewStoreError("post", "count", "query failed", err)
	}
	return count, nil
}

// Update implements store.PostStore.Update
func (s *PostgresPostStore) Update(ctx context.Context, post *domain.Post) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := post.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE posts
		SET title = $1, image_url = $2, content = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(ctx, query,
		post.Title,
		post.ImageURL,
		post.Content,
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		log.Error("failed to update post",
			slog.String("error", err.Error()),
			slog.String("post_id", post.ID.String()))
		return store.NewStoreError("post", "update", "update failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrPostNotFound); err != nil {
		return err
	}

	log.Debug("post updated successfully", slog.String("post_id", post.ID.String()))
	return nil
}

// Delete implements store.PostStore.Delete
func (s *PostgresPostStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete post",
			slog.String("error", err.Error()),
			slog.String("post_id", id.String()))
		return store.NewStoreError("post", "delete", "delete failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrPostNotFound); err != nil {
		return err
	}

	log.Info("post deleted successfully", slog.String("post_id", id.String()))
	return nil
}

func scanPostWithCreator(row rowScanner) (*domain.Post, error) {
	var post domain.Post
	var creator domain.User
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.ImageURL,
		&post.Content,
		&post.CreatorID,
		&post.CreatedAt,
		&post.UpdatedAt,
		&creator.ID,
		&creator.Email,
		&creator.Name,
		&creator.Status,
		&creator.CreatedAt,
		&creator.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	post.Creator = &creator
	return &post, nil
}
