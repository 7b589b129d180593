// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// User is a registered account. Email is the login key and is unique across users.
type User struct {
	ID           int64     // Assigned by the store on insert.
	Email        string    // Stored as given; lookups are case-sensitive.
	FullName     string    // Display name shown next to posts.
	PasswordHash string    // Never the plaintext and never empty once persisted.
	CreatedAt    time.Time // Set by the store.
	UpdatedAt    time.Time // Set by the store.
}

// UserSummary is the author projection embedded in posts.
type UserSummary struct {
	ID       int64
	FullName string
	Email    string
}

// Summary returns the author projection of u.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
	}
}
