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

// userPostsUserFKey is the constraint tying user_posts rows to their user.
const userPostsUserFKey = "user_posts_user_id_fkey"

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// Create implements store.UserStore.Create
// Returns store.ErrEmailExists if the email is already registered.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO users (id, email, password, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.HashedPassword,
		user.Name,
		user.Status,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("email already registered", slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return store.NewStoreError("user", "create", "insert failed", MapError(err))
	}

	log.Info("user created successfully", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, email, password, name, status, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return s.getOne(ctx, "get_by_id", query, id)
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, password, name, status, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return s.getOne(ctx, "get_by_email", query, email)
}

func (s *PostgresUserStore) getOne(ctx context.Context, op, query string, arg any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user domain.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&user.Name,
		&user.Status,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String("operation", op))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user",
			slog.String("error", err.Error()),
			slog.String("operation", op))
		return nil, store.NewStoreError("user", op, "query failed", err)
	}

	postIDs, err := s.postIDs(ctx, user.ID)
	if err != nil {
		return nil, store.NewStoreError("user", op, "failed to load post references", err)
	}
	user.PostIDs = postIDs

	return &user, nil
}

// postIDs returns the user's post references in insertion order.
func (s *PostgresUserStore) postIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT post_id
		FROM user_posts
		WHERE user_id = $1
		ORDER BY position
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Update implements store.UserStore.Update
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET name = $1, status = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(ctx, query, user.Name, user.Status, user.UpdatedAt, user.ID)
	if err != nil {
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return store.NewStoreError("user", "update", "update failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("user not found for update", slog.String("user_id", user.ID.String()))
		}
		return err
	}

	log.Debug("user updated successfully", slog.String("user_id", user.ID.String()))
	return nil
}

// AddPostReference implements store.UserStore.AddPostReference
func (s *PostgresUserStore) AddPostReference(ctx context.Context, userID, postID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO user_posts (user_id, post_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, post_id) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, userID, postID); err != nil {
		if IsForeignKeyViolation(err, userPostsUserFKey) {
			return store.ErrUserNotFound
		}
		log.Error("failed to add post reference",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("post_id", postID.String()))
		return store.NewStoreError("user", "add_post_reference", "insert failed", MapError(err))
	}
	return nil
}

// RemovePostReference implements store.UserStore.RemovePostReference
func (s *PostgresUserStore) RemovePostReference(ctx context.Context, userID, postID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM user_posts WHERE user_id = $1 AND post_id = $2`,
		userID, postID)
	if err != nil {
		log.Error("failed to remove post reference",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("post_id", postID.String()))
		return store.NewStoreError("user", "remove_post_reference", "delete failed", err)
	}
	if CheckRowsAffected(result, nil) == nil {
		return nil
	}

	// Nothing removed: either the reference was already gone or the user
	// does not exist.
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return store.NewStoreError("user", "remove_post_reference", "existence check failed", err)
	}
	if !exists {
		return store.ErrUserNotFound
	}
	return nil
}
