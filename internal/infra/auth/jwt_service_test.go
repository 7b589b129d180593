package auth

import (
	"testing"
	"time"

	"letsshare/config"
	"letsshare/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessSecret  = "test_access_secret_key_very_long_for_testing"
	testRefreshSecret = "test_refresh_secret_key_very_long_for_testing"
)

func newTestConfig() *config.Config {
	return &config.Config{
		SecretKey: config.SecretKeyConfig{
			Access:  testAccessSecret,
			Refresh: testRefreshSecret,
		},
		Auth: &config.AuthConfig{
			SigningAlgorithm: "HS256",
			AccessTokenTTL:   15 * time.Minute,
			RefreshTokenTTL:  7 * 24 * time.Hour,
		},
	}
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newClockedService(t *testing.T) (service.TokenService, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc, err := NewJWTServiceWithClock(newTestConfig(), clock.Now)
	require.NoError(t, err)

	return svc, clock
}

func signRaw(t *testing.T, method jwt.SigningMethod, claims jwt.Claims, secret string) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return token
}

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc, clock := newClockedService(t)

	token, err := svc.IssueAccessToken(42, "alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Empty(t, claims.Type)
	assert.Equal(t, clock.now.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, clock.now.Add(15*time.Minute).Unix(), claims.ExpiresAt.Unix())
	assert.Equal(t, 15*time.Minute, svc.AccessTokenTTL())
}

func TestJWTService_AccessTokenWithoutEmail(t *testing.T) {
	svc, _ := newClockedService(t)

	token, err := svc.IssueAccessToken(7, "")
	require.NoError(t, err)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Empty(t, claims.Email)
}

func TestJWTService_RefreshTokenRoundTrip(t *testing.T) {
	svc, clock := newClockedService(t)

	token, err := svc.IssueRefreshToken(42)
	require.NoError(t, err)

	claims, err := svc.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, service.TokenTypeRefresh, claims.Type)
	assert.Empty(t, claims.Email)
	assert.Equal(t, clock.now.Add(7*24*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestJWTService_Expiry(t *testing.T) {
	svc, clock := newClockedService(t)

	access, err := svc.IssueAccessToken(1, "a@example.com")
	require.NoError(t, err)
	refresh, err := svc.IssueRefreshToken(1)
	require.NoError(t, err)

	clock.now = clock.now.Add(14 * time.Minute)
	_, err = svc.VerifyAccessToken(access)
	require.NoError(t, err)

	clock.now = clock.now.Add(2 * time.Minute)
	_, err = svc.VerifyAccessToken(access)
	assert.ErrorIs(t, err, service.ErrTokenExpired)

	_, err = svc.VerifyRefreshToken(refresh)
	require.NoError(t, err)

	clock.now = clock.now.Add(7 * 24 * time.Hour)
	_, err = svc.VerifyRefreshToken(refresh)
	assert.ErrorIs(t, err, service.ErrTokenExpired)
}

func TestJWTService_SecretsAreNotInterchangeable(t *testing.T) {
	svc, _ := newClockedService(t)

	access, err := svc.IssueAccessToken(1, "a@example.com")
	require.NoError(t, err)
	refresh, err := svc.IssueRefreshToken(1)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, service.ErrTokenMalformed)

	_, err = svc.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, service.ErrTokenMalformed)
}

func TestJWTService_TypeClaim(t *testing.T) {
	svc, clock := newClockedService(t)
	exp := jwt.NewNumericDate(clock.now.Add(time.Minute))

	tests := []struct {
		name    string
		secret  string
		typ     string
		verify  func(string) (*service.Claims, error)
		wantErr error
	}{
		{
			name:    "access secret with refresh type",
			secret:  testAccessSecret,
			typ:     service.TokenTypeRefresh,
			verify:  svc.VerifyAccessToken,
			wantErr: service.ErrWrongTokenType,
		},
		{
			name:    "refresh secret without type",
			secret:  testRefreshSecret,
			typ:     "",
			verify:  svc.VerifyRefreshToken,
			wantErr: service.ErrWrongTokenType,
		},
		{
			name:    "refresh secret with access type",
			secret:  testRefreshSecret,
			typ:     "access",
			verify:  svc.VerifyRefreshToken,
			wantErr: service.ErrWrongTokenType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := signRaw(t, jwt.SigningMethodHS256, &service.Claims{
				Type: tt.typ,
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   "1",
					ExpiresAt: exp,
				},
			}, tt.secret)

			_, err := tt.verify(token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestJWTService_SubjectErrors(t *testing.T) {
	svc, clock := newClockedService(t)
	exp := jwt.NewNumericDate(clock.now.Add(time.Minute))

	tests := []struct {
		name    string
		subject string
		wantErr error
	}{
		{name: "missing subject", subject: "", wantErr: service.ErrMissingSubject},
		{name: "non numeric subject", subject: "alice", wantErr: service.ErrInvalidSubjectFormat},
		{name: "overflowing subject", subject: "99999999999999999999", wantErr: service.ErrInvalidSubjectFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := signRaw(t, jwt.SigningMethodHS256, &service.Claims{
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   tt.subject,
					ExpiresAt: exp,
				},
			}, testAccessSecret)

			_, err := svc.VerifyAccessToken(token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestJWTService_RejectsMalformedTokens(t *testing.T) {
	svc, clock := newClockedService(t)
	claims := &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Minute)),
		},
	}

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry := signRaw(t, jwt.SigningMethodHS256, &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1"},
	}, testAccessSecret)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "empty", token: ""},
		{name: "none algorithm", token: noneToken},
		{name: "different hmac algorithm", token: signRaw(t, jwt.SigningMethodHS512, claims, testAccessSecret)},
		{name: "wrong secret", token: signRaw(t, jwt.SigningMethodHS256, claims, "some-other-secret")},
		{name: "missing expiry", token: noExpiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.VerifyAccessToken(tt.token)
			assert.ErrorIs(t, err, service.ErrTokenMalformed)
		})
	}
}

func TestJWTService_ExpiredTokenWithWrongSecretIsMalformed(t *testing.T) {
	svc, clock := newClockedService(t)

	token := signRaw(t, jwt.SigningMethodHS256, &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(clock.now.Add(-time.Hour)),
		},
	}, "some-other-secret")

	_, err := svc.VerifyAccessToken(token)
	assert.ErrorIs(t, err, service.ErrTokenMalformed)
	assert.NotErrorIs(t, err, service.ErrTokenExpired)
}

func TestNewJWTService_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *config.Config)
		wantErr string
	}{
		{
			name:    "missing access secret",
			mutate:  func(cfg *config.Config) { cfg.SecretKey.Access = "" },
			wantErr: "must be provided",
		},
		{
			name:    "identical secrets",
			mutate:  func(cfg *config.Config) { cfg.SecretKey.Refresh = cfg.SecretKey.Access },
			wantErr: "must differ",
		},
		{
			name:    "missing auth config",
			mutate:  func(cfg *config.Config) { cfg.Auth = nil },
			wantErr: "auth configuration",
		},
		{
			name:    "zero ttl",
			mutate:  func(cfg *config.Config) { cfg.Auth.RefreshTokenTTL = 0 },
			wantErr: "must be positive",
		},
		{
			name:    "unsupported algorithm",
			mutate:  func(cfg *config.Config) { cfg.Auth.SigningAlgorithm = "RS256" },
			wantErr: "unsupported signing algorithm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig()
			tt.mutate(cfg)

			svc, err := NewJWTService(cfg)
			require.Error(t, err)
			assert.Nil(t, svc)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewJWTService_SigningAlgorithms(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512", "hs512"} {
		t.Run(alg, func(t *testing.T) {
			cfg := newTestConfig()
			cfg.Auth.SigningAlgorithm = alg

			svc, err := NewJWTService(cfg)
			require.NoError(t, err)

			token, err := svc.IssueAccessToken(3, "")
			require.NoError(t, err)

			claims, err := svc.VerifyAccessToken(token)
			require.NoError(t, err)
			assert.Equal(t, int64(3), claims.UserID)
		})
	}
}
