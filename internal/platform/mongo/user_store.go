package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/feed-api/internal/domain"
	"github.com/phrazzld/feed-api/internal/platform/logger"
	"github.com/phrazzld/feed-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserStore implements store.UserStore on the users collection.
type UserStore struct {
	users  *mongo.Collection
	logger *slog.Logger
}

// NewUserStore creates a UserStore bound to db. If logger is nil, a default
// logger will be used.
func NewUserStore(db *mongo.Database, logger *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserStore{
		users:  db.Collection(UsersCollection),
		logger: logger.With(slog.String("component", "mongo_user_store")),
	}
}

var _ store.UserStore = (*UserStore)(nil)

// Create implements store.UserStore.Create
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	if _, err := s.users.InsertOne(ctx, newUserDocument(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Debug("email already registered", slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return store.NewStoreError("user", "create", "insert failed", err)
	}

	log.Info("user created successfully", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.findOne(ctx, "get_by_id", bson.M{"_id": id.String()})
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(ctx, "get_by_email", bson.M{"email": email})
}

func (s *UserStore) findOne(ctx context.Context, op string, filter bson.M) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var doc userDocument
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Debug("user not found", slog.String("operation", op))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user",
			slog.String("error", err.Error()),
			slog.String("operation", op))
		return nil, store.NewStoreError("user", op, "find failed", err)
	}

	user, err := doc.toDomain()
	if err != nil {
		return nil, store.NewStoreError("user", op, "malformed document", err)
	}
	return user, nil
}

// Update implements store.UserStore.Update
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.users.UpdateOne(ctx,
		bson.M{"_id": user.ID.String()},
		bson.M{"$set": bson.M{
			"name":      user.Name,
			"status":    user.Status,
			"updatedAt": user.UpdatedAt.UTC(),
		}},
	)
	if err != nil {
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return store.NewStoreError("user", "update", "update failed", err)
	}
	if result.MatchedCount == 0 {
		return store.ErrUserNotFound
	}

	log.Debug("user updated successfully", slog.String("user_id", user.ID.String()))
	return nil
}

// AddPostReference implements store.UserStore.AddPostReference
func (s *UserStore) AddPostReference(ctx context.Context, userID, postID uuid.UUID) error {
	return s.updateReferences(ctx, "add_post_reference", userID,
		bson.M{"$addToSet": bson.M{"posts": postID.String()}})
}

// RemovePostReference implements store.UserStore.RemovePostReference
func (s *UserStore) RemovePostReference(ctx context.Context, userID, postID uuid.UUID) error {
	return s.updateReferences(ctx, "remove_post_reference", userID,
		bson.M{"$pull": bson.M{"posts": postID.String()}})
}

func (s *UserStore) updateReferences(ctx context.Context, op string, userID uuid.UUID, update bson.M) error {
	result, err := s.users.UpdateOne(ctx, bson.M{"_id": userID.String()}, update)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update post references",
			slog.String("error", err.Error()),
			slog.String("operation", op),
			slog.String("user_id", userID.String()))
		return store.NewStoreError("user", op, "update failed", err)
	}
	if result.MatchedCount == 0 {
		return store.ErrUserNotFound
	}
	return nil
}
