package errors

import (
	"net/http"
	"testing"

	"letsshare/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseError_WithDetailsMatchesOrigin(t *testing.T) {
	detailed := ErrValidationFailed.WithDetails("password must be at least 8 characters")

	assert.ErrorIs(t, detailed, ErrValidationFailed)
	assert.NotErrorIs(t, detailed, ErrInvalidCredentials)
	assert.Equal(t, "password must be at least 8 characters", detailed.Details())
	assert.Equal(t, "VALIDATION_FAILED", detailed.ErrorCode())
	assert.Empty(t, ErrValidationFailed.Details(), "predefined error must stay untouched")

	twice := detailed.WithDetails("other")
	assert.ErrorIs(t, twice, ErrValidationFailed)
}

func TestBaseError_WrapMessageKeepsAppError(t *testing.T) {
	err := ErrUserAlreadyExists.WrapMessage("email already exists")

	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	appErr, ok := errors.AsType[AppError](err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, appErr.HTTPCode())
	assert.Equal(t, "USER_ALREADY_EXISTS", appErr.ErrorCode())
}

func TestRefreshErrors_AreDistinctButShareExternalCode(t *testing.T) {
	assert.NotErrorIs(t, ErrRefreshTokenExpired, ErrRefreshTokenInvalid)
	assert.NotErrorIs(t, ErrRefreshTokenInvalid, ErrRefreshTokenExpired)
	assert.Equal(t, ErrRefreshTokenInvalid.ErrorCode(), ErrRefreshTokenExpired.ErrorCode())
	assert.Equal(t, ErrRefreshTokenInvalid.Message(), ErrRefreshTokenExpired.Message())
}

func TestDatabaseExecuteError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewDatabaseExecuteError(cause, "failed to create post")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode())
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", err.ErrorCode())
	assert.Contains(t, err.Error(), "connection reset")
}
