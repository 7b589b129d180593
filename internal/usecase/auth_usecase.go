// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"letsshare/internal/domain/entity"
)

// --- Input DTOs ---

// SignupInput defines the data required to create an account.
type SignupInput struct {
	Email    string
	FullName string
	Password string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// RefreshInput carries the refresh token presented by the client.
type RefreshInput struct {
	RefreshToken string
}

// --- Output DTOs ---

// SignupOutput returns the newly created user. Signup never issues tokens.
type SignupOutput struct {
	User *entity.User
}

// LoginOutput returns the user together with a fresh token pair.
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // access token lifetime in seconds
	TokenType    string
}

// RefreshOutput returns a new access token. The refresh token is not rotated.
type RefreshOutput struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
}

// AuthUsecase defines the account and credential operations used by the delivery layer.
type AuthUsecase interface {
	Signup(ctx context.Context, input *SignupInput) (*SignupOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	Refresh(ctx context.Context, input *RefreshInput) (*RefreshOutput, error)
	// Authenticate resolves a bearer access token to its user.
	// Every failure is reported as ErrUnauthenticated.
	Authenticate(ctx context.Context, accessToken string) (*entity.User, error)
	Me(ctx context.Context, userID int64) (*entity.User, error)
}
