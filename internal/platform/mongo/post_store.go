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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// creatorProjection keeps password hashes out of populated creators.
var creatorProjection = bson.M{"password": 0}

// PostStore implements store.PostStore on the posts collection, populating
// creators from the users collection.
type PostStore struct {
	posts  *mongo.Collection
	users  *mongo.Collection
	logger *slog.Logger
}

// NewPostStore creates a PostStore bound to db. If logger is nil, a default
// logger will be used.
func NewPostStore(db *mongo.Database, logger *slog.Logger) *PostStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostStore{
		posts:  db.Collection(PostsCollection),
		users:  db.Collection(UsersCollection),
		logger: logger.With(slog.String("component", "mongo_post_store")),
	}
}

var _ store.PostStore = (*PostStore)(nil)

// Create implements store.PostStore.Create
func (s *PostStore) Create(ctx context.Context, post *domain.Post) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := post.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	if _, err := s.posts.InsertOne(ctx, newPostDocument(post)); err != nil {
		log.Error("failed to create post",
			slog.String("error", err.Error()),
			slog.String("post_id", post.ID.String()))
		return store.NewStoreError("post", "create", "insert failed", MapError(err))
	}

	log.Info("post created successfully",
		slog.String("post_id", post.ID.String()),
		slog.String("creator_id", post.CreatorID.String()))
	return nil
}

// GetByID implements store.PostStore.GetByID
func (s *PostStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	var doc postDocument
	if err := s.posts.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrPostNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get post",
			slog.String("error", err.Error()),
			slog.String("post_id", id.String()))
		return nil, store.NewStoreError("post", "get", "find failed", err)
	}

	post, err := doc.toDomain()
	if err != nil {
		return nil, store.NewStoreError("post", "get", "malformed document", err)
	}
	return post, nil
}

// GetWithCreator implements store.PostStore.GetWithCreator
func (s *PostStore) GetWithCreator(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	post, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.populate(ctx, []*domain.Post{post}); err != nil {
		return nil, store.NewStoreError("post", "get_with_creator", "creator lookup failed", err)
	}
	return post, nil
}

// List implements store.PostStore.List
func (s *PostStore) List(ctx context.Context, page store.Page) ([]*domain.Post, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Size))

	cursor, err := s.posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		log.Error("failed to list posts",
			slog.String("error", err.Error()),
			slog.Int("page", page.Number))
		return nil, store.NewStoreError("post", "list", "find failed", err)
	}

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, store.NewStoreError("post", "list", "decode failed", err)
	}

	posts := make([]*domain.Post, 0, len(docs))
	for _, doc := range docs {
		post, err := doc.toDomain()
		if err != nil {
			return nil, store.NewStoreError("post", "list", "malformed document", err)
		}
		posts = append(posts, post)
	}

	if err := s.populate(ctx, posts); err != nil {
		return nil, store.NewStoreError("post", "list", "creator lookup failed", err)
	}
	return posts, nil
}

// populate loads the creators of posts with a single $in query. Posts whose
// creator no longer exists keep a nil Creator.
func (s *PostStore) populate(ctx context.Context, posts []*domain.Post) error {
	if len(posts) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		id := p.CreatorID.String()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	cursor, err := s.users.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(creatorProjection))
	if err != nil {
		return err
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return err
	}

	creators := make(map[uuid.UUID]*domain.User, len(docs))
	for _, doc := range docs {
		user, err := doc.toDomain()
		if err != nil {
			return err
		}
		creators[user.ID] = user
	}

	for _, p := range posts {
		p.Creator = creators[p.CreatorID]
	}
	return nil
}

// Count implements store.PostStore.Count
func (s *PostStore) Count(ctx context.Context) (int, error) {
	n, err := s.posts.CountDocuments(ctx, bson.M{})
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count posts",
			slog.String("error", err.Error()))
		return 0, store.NewStoreError("post", "count", "count failed", err)
	}
	return int(n), nil
}

// Update implements store.PostStore.Update
func (s *PostStore) Update(ctx context.Context, post *domain.Post) error {
	if err := post.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	result, err := s.posts.UpdateOne(ctx,
		bson.M{"_id": post.ID.String()},
		bson.M{"$set": bson.M{
			"title":     post.Title,
			"imageUrl":  post.ImageURL,
			"content":   post.Content,
			"updatedAt": post.UpdatedAt.UTC(),
		}},
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update post",
			slog.String("error", err.Error()),
			slog.String("post_id", post.ID.String()))
		return store.NewStoreError("post", "update", "update failed", err)
	}
	if result.MatchedCount == 0 {
		return store.ErrPostNotFound
	}
	return nil
}

// Delete implements store.PostStore.Delete
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.posts.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		log.Error("failed to delete post",
			slog.String("error", err.Error()),
			slog.String("post_id", id.String()))
		return store.NewStoreError("post", "delete", "delete failed", err)
	}
	if result.DeletedCount == 0 {
		return store.ErrPostNotFound
	}

	log.Info("post deleted successfully", slog.String("post_id", id.String()))
	return nil
}
