package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/feed-api/internal/domain"
	"github.com/phrazzld/feed-api/internal/platform/logger"
	"github.com/phrazzld/feed-api/internal/service/auth"
	"github.com/phrazzld/feed-api/internal/store"
	"github.com/phrazzld/feed-api/internal/validation"
)

// PostsPerPage is the fixed page size of GetPosts.
const PostsPerPage = 2

// PostInput holds the editable fields of a post.
type PostInput struct {
	Title    string
	ImageURL string
	Content  string
}

// PostsPage is one page of the feed plus the total number of posts.
type PostsPage struct {
	Posts      []*domain.Post
	TotalPosts int
}

// ImageRemover deletes stored image files. Failures are logged, never returned.
type ImageRemover interface {
	Delete(ctx context.Context, path string) error
}

// FeedService provides post operations. Every operation requires an
// authenticated caller except PostsByIDs, which backs nested field resolution.
type FeedService interface {
	// CreatePost stores a new post owned by the caller and adds it to the
	// caller's post list.
	CreatePost(ctx context.Context, input PostInput) (*domain.Post, error)

	// GetPosts returns the requested page, newest first. Pages below 1 are
	// treated as page 1.
	GetPosts(ctx context.Context, page int) (*PostsPage, error)

	// ViewPost returns a single post with its creator.
	ViewPost(ctx context.Context, postID string) (*domain.Post, error)

	// UpdatePost overwrites title and content, and the image when a new one is
	// given. Only the creator may update a post.
	UpdatePost(ctx context.Context, postID string, input PostInput) (*domain.Post, error)

	// DeletePost removes the post, its reference on the creator and its image.
	// Only the creator may delete a post.
	DeletePost(ctx context.Context, postID string) error

	// PostsByIDs returns the posts with the given IDs in the same order,
	// skipping any that no longer exist.
	PostsByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Post, error)
}

type feedService struct {
	posts  store.PostStore
	users  store.UserStore
	images ImageRemover
	logger *slog.Logger
	now    func() time.Time
}

var _ FeedService = (*feedService)(nil)

// NewFeedService creates a new FeedService. images may be nil, in which case
// image files are left in place when posts are deleted.
func NewFeedService(
	posts store.PostStore,
	users store.UserStore,
	images ImageRemover,
	logger *slog.Logger,
) FeedService {
	return &feedService{
		posts:  posts,
		users:  users,
		images: images,
		logger: logger.With("component", "feed_service"),
		now:    time.Now,
	}
}

// CreatePost creates a post for the caller.
func (s *feedService) CreatePost(ctx context.Context, input PostInput) (*domain.Post, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	caller, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	if err := NewValidationError(validation.Post(input.Title, input.Content)); err != nil {
		return nil, err
	}

	creator, err := s.users.GetByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		log.Error("failed to retrieve creator", "error", err, "user_id", caller.UserID)
		return nil, newServiceError("feed", "create_post", err)
	}

	post, err := domain.NewPost(creator.ID, input.Title, input.ImageURL, input.Content)
	if err != nil {
		return nil, newServiceError("feed", "create_post", err)
	}

	if err := s.posts.Create(ctx, post); err != nil {
		log.Error("failed to save post", "error", err, "user_id", creator.ID)
		return nil, newServiceError("feed", "create_post", err)
	}

	// Separate write; a failure here leaves the post without a reference.
	if err := s.users.AddPostReference(ctx, creator.ID, post.ID); err != nil {
		log.Error("failed to add post reference",
			"error", err,
			"user_id", creator.ID,
			"post_id", post.ID)
		return nil, newServiceError("feed", "create_post", err)
	}
	creator.PostIDs = append(creator.PostIDs, post.ID)
	post.Creator = creator.Sanitized()

	log.Info("post created", "post_id", post.ID, "user_id", creator.ID)
	return post, nil
}

// GetPosts lists one page of posts.
func (s *feedService) GetPosts(ctx context.Context, page int) (*PostsPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, ok := auth.IdentityFromContext(ctx); !ok {
		return nil, ErrNotAuthenticated
	}
	if page < 1 {
		page = 1
	}

	total, err := s.posts.Count(ctx)
	if err != nil {
		log.Error("failed to count posts", "error", err)
		return nil, newServiceError("feed", "get_posts", err)
	}

	posts, err := s.posts.List(ctx, store.Page{Number: page, Size: PostsPerPage})
	if err != nil {
		log.Error("failed to list posts", "error", err, "page", page)
		return nil, newServiceError("feed", "get_posts", err)
	}
	for _, p := range posts {
		sanitizeCreator(p)
	}

	return &PostsPage{Posts: posts, TotalPosts: total}, nil
}

// ViewPost returns one post.
func (s *feedService) ViewPost(ctx context.Context, postID string) (*domain.Post, error) {
	if _, ok := auth.IdentityFromContext(ctx); !ok {
		return nil, ErrNotAuthenticated
	}
	return s.loadPost(ctx, postID, "view_post")
}

// UpdatePost edits a post owned by the caller.
func (s *feedService) UpdatePost(ctx context.Context, postID string, input PostInput) (*domain.Post, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	caller, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	post, err := s.loadPost(ctx, postID, "update_post")
	if err != nil {
		return nil, err
	}

	if !post.IsCreatedBy(caller.UserID) {
		log.Debug("update of post by non-creator",
			"post_id", post.ID,
			"user_id", caller.UserID)
		return nil, ErrNotAuthorized
	}

	if err := NewValidationError(validation.Post(input.Title, input.Content)); err != nil {
		return nil, err
	}

	post.ApplyUpdate(input.Title, input.ImageURL, input.Content, s.now())
	if err := s.posts.Update(ctx, post); err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		log.Error("failed to update post", "error", err, "post_id", post.ID)
		return nil, newServiceError("feed", "update_post", err)
	}

	log.Info("post updated", "post_id", post.ID)
	return post, nil
}

// DeletePost deletes a post owned by the caller.
func (s *feedService) DeletePost(ctx context.Context, postID string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	caller, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return ErrNotAuthenticated
	}

	id, err := uuid.Parse(postID)
	if err != nil {
		return ErrPostNotFound
	}

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return s.mapPostError(ctx, err, id, "delete_post")
	}

	if !post.IsCreatedBy(caller.UserID) {
		log.Debug("delete of post by non-creator",
			"post_id", post.ID,
			"user_id", caller.UserID)
		return ErrNotAuthorized
	}

	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return s.mapPostError(ctx, err, id, "delete_post")
	}

	// Separate write; a failure here leaves a dangling reference.
	if err := s.users.RemovePostReference(ctx, post.CreatorID, post.ID); err != nil {
		log.Error("failed to remove post reference",
			"error", err,
			"user_id", post.CreatorID,
			"post_id", post.ID)
		return newServiceError("feed", "delete_post", err)
	}

	s.clearImage(ctx, post.ImageURL)

	log.Info("post deleted", "post_id", post.ID)
	return nil
}

// PostsByIDs resolves a user's post references.
func (s *feedService) PostsByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Post, error) {
	posts := make([]*domain.Post, 0, len(ids))
	for _, id := range ids {
		post, err := s.posts.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrPostNotFound) {
				continue
			}
			return nil, s.mapPostError(ctx, err, id, "posts_by_ids")
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// loadPost parses postID and fetches the post with its creator. Malformed
// IDs are reported as not found.
func (s *feedService) loadPost(ctx context.Context, postID, op string) (*domain.Post, error) {
	id, err := uuid.Parse(postID)
	if err != nil {
		return nil, ErrPostNotFound
	}

	post, err := s.posts.GetWithCreator(ctx, id)
	if err != nil {
		return nil, s.mapPostError(ctx, err, id, op)
	}
	sanitizeCreator(post)
	return post, nil
}

func (s *feedService) mapPostError(ctx context.Context, err error, id uuid.UUID, op string) error {
	if errors.Is(err, store.ErrPostNotFound) {
		return ErrPostNotFound
	}
	logger.FromContextOrDefault(ctx, s.logger).
		Error("post store operation failed", "error", err, "post_id", id, "operation", op)
	return newServiceError("feed", op, err)
}

func (s *feedService) clearImage(ctx context.Context, path string) {
	if s.images == nil || path == "" {
		return
	}
	if err := s.images.Delete(ctx, path); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).
			Warn("failed to delete post image", "error", err, "path", path)
	}
}

func sanitizeCreator(p *domain.Post) {
	if p.Creator != nil {
		p.Creator = p.Creator.Sanitized()
	}
}
