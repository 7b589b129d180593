package entity

import "time"

// Post is a short text entry written by a single author.
type Post struct {
	ID          int64
	Description string
	AuthorID    int64
	Author      *UserSummary // Populated on reads; nil on freshly built posts.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsAuthoredBy reports whether userID wrote the post.
func (p *Post) IsAuthoredBy(userID int64) bool {
	return p.AuthorID == userID
}
