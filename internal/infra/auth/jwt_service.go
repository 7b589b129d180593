// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strconv"
	"strings"
	"time"

	"letsshare/config"
	"letsshare/internal/domain/service"
	"letsshare/internal/errors"

	"github.com/golang-jwt/jwt/v5"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	accessSecret  []byte
	refreshSecret []byte
	method        jwt.SigningMethod
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	return NewJWTServiceWithClock(cfg, time.Now)
}

// NewJWTServiceWithClock builds a jwtService that reads the current time from now.
// Issuance and expiry checks both use the same clock.
func NewJWTServiceWithClock(cfg *config.Config, now func() time.Time) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}
	if cfg.SecretKey.Access == cfg.SecretKey.Refresh {
		return nil, errors.New("jwt access and refresh secrets must differ")
	}
	if cfg.Auth == nil {
		return nil, errors.New("auth configuration must be provided")
	}
	if cfg.Auth.AccessTokenTTL <= 0 || cfg.Auth.RefreshTokenTTL <= 0 {
		return nil, errors.New("jwt token lifetimes must be positive")
	}

	method, err := signingMethod(cfg.Auth.SigningAlgorithm)
	if err != nil {
		return nil, err
	}

	return &jwtService{
		accessSecret:  []byte(cfg.SecretKey.Access),
		refreshSecret: []byte(cfg.SecretKey.Refresh),
		method:        method,
		accessTTL:     cfg.Auth.AccessTokenTTL,
		refreshTTL:    cfg.Auth.RefreshTokenTTL,
		now:           now,
	}, nil
}

func signingMethod(name string) (jwt.SigningMethod, error) {
	switch strings.ToUpper(name) {
	case "", "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, errors.Errorf("unsupported signing algorithm %q", name)
	}
}

// IssueAccessToken creates a short-lived access token for the user.
func (s *jwtService) IssueAccessToken(userID int64, email string) (string, error) {
	claims := s.newClaims(userID, s.accessTTL)
	claims.Email = email

	return s.sign(claims, s.accessSecret)
}

// IssueRefreshToken creates a long-lived refresh token for the user.
func (s *jwtService) IssueRefreshToken(userID int64) (string, error) {
	claims := s.newClaims(userID, s.refreshTTL)
	claims.Type = service.TokenTypeRefresh

	return s.sign(claims, s.refreshSecret)
}

// VerifyAccessToken rejects typed tokens so a refresh token can never pass as an access token.
func (s *jwtService) VerifyAccessToken(tokenString string) (*service.Claims, error) {
	claims, err := s.parse(tokenString, s.accessSecret)
	if err != nil {
		return nil, err
	}
	if claims.Type != "" {
		return nil, errors.Wrapf(service.ErrWrongTokenType, "access token carries type %q", claims.Type)
	}

	return claims, nil
}

// VerifyRefreshToken validates a refresh token. The "type" claim must be exactly "refresh".
func (s *jwtService) VerifyRefreshToken(tokenString string) (*service.Claims, error) {
	claims, err := s.parse(tokenString, s.refreshSecret)
	if err != nil {
		return nil, err
	}
	if claims.Type != service.TokenTypeRefresh {
		return nil, errors.Wrapf(service.ErrWrongTokenType, "refresh token carries type %q", claims.Type)
	}

	return claims, nil
}

// AccessTokenTTL returns the configured duration for access tokens.
func (s *jwtService) AccessTokenTTL() time.Duration {
	return s.accessTTL
}

func (s *jwtService) newClaims(userID int64, ttl time.Duration) *service.Claims {
	now := s.now()

	return &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

func (s *jwtService) sign(claims *service.Claims, secret []byte) (string, error) {
	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// parse checks signature, algorithm and expiry, then resolves the subject.
// Signature is verified before expiry, so a token signed with the other secret
// is malformed even when it has also expired.
func (s *jwtService) parse(tokenString string, secret []byte) (*service.Claims, error) {
	claims := &service.Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}

			return secret, nil
		},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.WithStack(service.ErrTokenExpired)
		}

		return nil, errors.Wrap(service.ErrTokenMalformed, err.Error())
	}

	if claims.Subject == "" {
		return nil, errors.WithStack(service.ErrMissingSubject)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(service.ErrInvalidSubjectFormat, "subject %q", claims.Subject)
	}
	claims.UserID = userID

	return claims, nil
}
