package repository

import (
	"context"

	"letsshare/internal/domain/entity"
	"letsshare/internal/errors"
)

// ErrPostNotFound is returned when no post matches a lookup.
var ErrPostNotFound = errors.New("post not found")

// PostRepository defines persistence operations for posts.
// Reads return posts with their Author summary populated.
type PostRepository interface {
	// List returns every post, newest first.
	List(ctx context.Context) ([]*entity.Post, error)

	FindByID(ctx context.Context, id int64) (*entity.Post, error)

	// Create persists a new post and fills in the store-assigned ID and timestamps.
	Create(ctx context.Context, post *entity.Post) error

	// UpdateDescription changes the text of an existing post and refreshes UpdatedAt.
	UpdateDescription(ctx context.Context, post *entity.Post) error
}
