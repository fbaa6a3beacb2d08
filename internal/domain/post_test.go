package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewPost(t *testing.T) {
	creatorID := uuid.New()

	post, err := NewPost(creatorID, "A title", "images/a.png", "Some content")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if post.ID == uuid.Nil {
		t.Error("Expected non-nil UUID")
	}
	if !post.IsCreatedBy(creatorID) {
		t.Error("Expected post to be created by creator")
	}
	if post.IsCreatedBy(uuid.New()) || post.IsCreatedBy(uuid.Nil) {
		t.Error("Expected post not to be created by other users")
	}

	_, err = NewPost(uuid.Nil, "A title", "", "Some content")
	if !errors.Is(err, ErrEmptyCreatorID) {
		t.Errorf("Expected error %v, got %v", ErrEmptyCreatorID, err)
	}

	_, err = NewPost(creatorID, "", "", "Some content")
	if !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("Expected error %v, got %v", ErrEmptyTitle, err)
	}

	_, err = NewPost(creatorID, "A title", "", "")
	if !errors.Is(err, ErrEmptyContent) {
		t.Errorf("Expected error %v, got %v", ErrEmptyContent, err)
	}
}

func TestPostApplyUpdate(t *testing.T) {
	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	post := &Post{
		ID:        uuid.New(),
		Title:     "Old title",
		ImageURL:  "images/old.png",
		Content:   "Old content",
		CreatorID: uuid.New(),
		CreatedAt: created,
		UpdatedAt: created,
	}

	tests := []struct {
		name      string
		imageURL  string
		now       time.Time
		wantImage string
		wantTime  time.Time
	}{
		{
			name:      "keeps image when none supplied",
			imageURL:  "",
			now:       created.Add(time.Hour),
			wantImage: "images/old.png",
			wantTime:  created.Add(time.Hour),
		},
		{
			name:      "replaces image when supplied",
			imageURL:  "images/new.png",
			now:       created.Add(2 * time.Hour),
			wantImage: "images/new.png",
			wantTime:  created.Add(2 * time.Hour),
		},
		{
			name:      "clamps clock skew to creation time",
			imageURL:  "",
			now:       created.Add(-time.Hour),
			wantImage: "images/new.png",
			wantTime:  created,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post.ApplyUpdate("New title", tt.imageURL, "New content", tt.now)

			if post.Title != "New title" || post.Content != "New content" {
				t.Errorf("Expected title/content overwritten, got %q/%q", post.Title, post.Content)
			}
			if post.ImageURL != tt.wantImage {
				t.Errorf("Expected image %q, got %q", tt.wantImage, post.ImageURL)
			}
			if !post.UpdatedAt.Equal(tt.wantTime) {
				t.Errorf("Expected updated at %v, got %v", tt.wantTime, post.UpdatedAt)
			}
		})
	}
}
