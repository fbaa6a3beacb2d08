package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Post
var (
	ErrEmptyPostID    = fmt.Errorf("%w: post ID cannot be empty", ErrValidation)
	ErrEmptyCreatorID = fmt.Errorf("%w: post creator cannot be empty", ErrValidation)
	ErrEmptyTitle     = fmt.Errorf("%w: post title cannot be empty", ErrValidation)
	ErrEmptyContent   = fmt.Errorf("%w: post content cannot be empty", ErrValidation)
)

// Post is a titled text entry with an optional image, authored by one User.
type Post struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	Content   string    `json:"content"`
	CreatorID uuid.UUID `json:"creator_id"`
	// Creator is populated only by store reads that resolve the relationship.
	Creator   *User     `json:"creator,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPost creates a new Post owned by creatorID.
func NewPost(creatorID uuid.UUID, title, imageURL, content string) (*Post, error) {
	now := time.Now().UTC()
	post := &Post{
		ID:        uuid.New(),
		Title:     title,
		ImageURL:  imageURL,
		Content:   content,
		CreatorID: creatorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := post.Validate(); err != nil {
		return nil, err
	}

	return post, nil
}

// Validate checks if the Post has valid data.
func (p *Post) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyPostID
	}

	if p.CreatorID == uuid.Nil {
		return ErrEmptyCreatorID
	}

	if p.Title == "" {
		return ErrEmptyTitle
	}

	if p.Content == "" {
		return ErrEmptyContent
	}

	return nil
}

// IsCreatedBy reports whether userID authored the post.
func (p *Post) IsCreatedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && p.CreatorID == userID
}

// ApplyUpdate overwrites title and content and, when imageURL is non-empty,
// the image path. UpdatedAt is moved forward and never precedes CreatedAt.
func (p *Post) ApplyUpdate(title, imageURL, content string, now time.Time) {
	p.Title = title
	p.Content = content
	if imageURL != "" {
		p.ImageURL = imageURL
	}

	now = now.UTC()
	if now.Before(p.CreatedAt) {
		now = p.CreatedAt
	}
	p.UpdatedAt = now
}
