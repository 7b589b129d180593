package usecase

import (
	"context"

	"letsshare/internal/domain/entity"
)

// CreatePostInput defines the data required to publish a post.
type CreatePostInput struct {
	AuthorID    int64
	Description string
}

// UpdatePostInput defines an edit of a post's description by UserID.
type UpdatePostInput struct {
	PostID      int64
	UserID      int64
	Description string
}

// PostUsecase defines the post feed operations.
type PostUsecase interface {
	ListPosts(ctx context.Context) ([]*entity.Post, error)
	GetPost(ctx context.Context, id int64) (*entity.Post, error)
	CreatePost(ctx context.Context, input *CreatePostInput) (*entity.Post, error)
	UpdatePost(ctx context.Context, input *UpdatePostInput) (*entity.Post, error)
	GetPostQRCode(ctx context.Context, id int64) ([]byte, error)
}
