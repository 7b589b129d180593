package service

import (
	"time"

	"letsshare/internal/errors"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTypeRefresh is the mandatory "type" claim of refresh tokens.
const TokenTypeRefresh = "refresh"

// Verification failures. Callers decide how much of the distinction to expose.
var (
	ErrTokenExpired         = errors.New("token has expired")
	ErrTokenMalformed       = errors.New("token is malformed or has an invalid signature")
	ErrMissingSubject       = errors.New("token has no subject")
	ErrInvalidSubjectFormat = errors.New("token subject is not a valid user id")
	ErrWrongTokenType       = errors.New("token has the wrong type")
)

// Claims defines the custom claims for the JWT tokens.
type Claims struct {
	Email string `json:"email,omitempty"`
	Type  string `json:"type,omitempty"`
	jwt.RegisteredClaims

	// UserID is the parsed subject. It is filled in by verification and never serialized.
	UserID int64 `json:"-"`
}

// TokenService issues and verifies the stateless access and refresh tokens.
// Access and refresh tokens are signed with different secrets.
type TokenService interface {
	// IssueAccessToken signs {sub, email?, iat, exp} with the access secret.
	IssueAccessToken(userID int64, email string) (string, error)

	// IssueRefreshToken signs {sub, type:"refresh", iat, exp} with the refresh secret.
	IssueRefreshToken(userID int64) (string, error)

	// VerifyAccessToken validates an access token and returns its claims.
	VerifyAccessToken(token string) (*Claims, error)

	// VerifyRefreshToken validates a refresh token, including its type claim.
	VerifyRefreshToken(token string) (*Claims, error)

	// AccessTokenTTL returns the configured lifetime of access tokens.
	AccessTokenTTL() time.Duration
}
