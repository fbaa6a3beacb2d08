package mongo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/feed-api/internal/domain"
)

type userDocument struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email"`
	Password  string    `bson:"password,omitempty"`
	Name      string    `bson:"name"`
	Status    string    `bson:"status"`
	Posts     []string  `bson:"posts"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type postDocument struct {
	ID        string    `bson:"_id"`
	Title     string    `bson:"title"`
	ImageURL  string    `bson:"imageUrl"`
	Content   string    `bson:"content"`
	Creator   string    `bson:"creator"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func newUserDocument(u *domain.User) userDocument {
	posts := make([]string, 0, len(u.PostIDs))
	for _, id := range u.PostIDs {
		posts = append(posts, id.String())
	}
	return userDocument{
		ID:        u.ID.String(),
		Email:     u.Email,
		Password:  u.HashedPassword,
		Name:      u.Name,
		Status:    u.Status,
		Posts:     posts,
		CreatedAt: u.CreatedAt.UTC(),
		UpdatedAt: u.UpdatedAt.UTC(),
	}
}

func (d userDocument) toDomain() (*domain.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: user _id %q", domain.ErrInvalidID, d.ID)
	}

	postIDs := make([]uuid.UUID, 0, len(d.Posts))
	for _, raw := range d.Posts {
		postID, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: post reference %q", domain.ErrInvalidID, raw)
		}
		postIDs = append(postIDs, postID)
	}

	return &domain.User{
		ID:             id,
		Email:          d.Email,
		HashedPassword: d.Password,
		Name:           d.Name,
		Status:         d.Status,
		PostIDs:        postIDs,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}, nil
}

func newPostDocument(p *domain.Post) postDocument {
	return postDocument{
		ID:        p.ID.String(),
		Title:     p.Title,
		ImageURL:  p.ImageURL,
		Content:   p.Content,
		Creator:   p.CreatorID.String(),
		CreatedAt: p.CreatedAt.UTC(),
		UpdatedAt: p.UpdatedAt.UTC(),
	}
}

func (d postDocument) toDomain() (*domain.Post, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: post _id %q", domain.ErrInvalidID, d.ID)
	}
	creatorID, err := uuid.Parse(d.Creator)
	if err != nil {
		return nil, fmt.Errorf("%w: post creator %q", domain.ErrInvalidID, d.Creator)
	}

	return &domain.Post{
		ID:        id,
		Title:     d.Title,
		ImageURL:  d.ImageURL,
		Content:   d.Content,
		CreatorID: creatorID,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}
