package handler

import (
	"time"

	"letsshare/internal/domain/entity"
)

// UserResponse is the public projection of an account. It never carries the password hash.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthorResponse is the author summary embedded in posts.
type AuthorResponse struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// PostResponse is a post with its author.
type PostResponse struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Author      *AuthorResponse `json:"author"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func toPostResponse(post *entity.Post) *PostResponse {
	resp := &PostResponse{
		ID:          post.ID,
		Description: post.Description,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
	if post.Author != nil {
		resp.Author = &AuthorResponse{
			ID:       post.Author.ID,
			FullName: post.Author.FullName,
			Email:    post.Author.Email,
		}
	}

	return resp
}

func toPostResponses(posts []*entity.Post) []*PostResponse {
	resp := make([]*PostResponse, 0, len(posts))
	for _, post := range posts {
		resp = append(resp, toPostResponse(post))
	}

	return resp
}
