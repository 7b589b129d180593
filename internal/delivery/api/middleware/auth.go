package middleware

import (
	"log/slog"
	"strings"

	"letsshare/internal/delivery/api/response"
	deliverycontext "letsshare/internal/delivery/context"
	"letsshare/internal/domain/entity"
	"letsshare/internal/usecase"

	"github.com/labstack/echo/v4"
)

const bearerScheme = "bearer"

// AuthMiddleware guards routes that need an authenticated user.
type AuthMiddleware struct {
	authUC usecase.AuthUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(authUC usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{authUC: authUC}
}

// Authenticate resolves the bearer token to a user. A missing header, a bad
// token and a deleted user all get the same 401 challenge.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return response.Unauthorized(c)
		}

		user, err := m.authUC.Authenticate(c.Request().Context(), token)
		if err != nil {
			// Non-auth failures, such as the store being down, go to the error handler.
			return err
		}

		deliverycontext.SetUser(c, user)

		ctx := c.Request().Context()
		logger := deliverycontext.GetLogger(ctx)
		if logger != nil {
			ctx = deliverycontext.WithLogger(ctx, logger.With(slog.Int64("user_id", user.ID)))
			c.SetRequest(c.Request().WithContext(ctx))
		}

		return next(c)
	}
}

// bearerToken extracts the credentials of an "Authorization: Bearer <token>" header.
// The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}

	return token, true
}

// GetUser returns the user resolved by Authenticate.
func GetUser(c echo.Context) (*entity.User, bool) {
	return deliverycontext.GetUser(c)
}

// GetUserID returns the id of the user resolved by Authenticate.
func GetUserID(c echo.Context) (int64, bool) {
	user, ok := deliverycontext.GetUser(c)
	if !ok {
		return 0, false
	}

	return user.ID, true
}
