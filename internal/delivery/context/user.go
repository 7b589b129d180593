package context

import (
	"letsshare/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// KeyUser is the echo.Context key for the authenticated user.
const KeyUser ContextKey = "user"

// SetUser stores the authenticated user on the echo.Context.
func SetUser(c echo.Context, user *entity.User) {
	c.Set(string(KeyUser), user)
}

// GetUser returns the user stored by SetUser.
func GetUser(c echo.Context) (*entity.User, bool) {
	user, ok := c.Get(string(KeyUser)).(*entity.User)
	if !ok || user == nil {
		return nil, false
	}

	return user, true
}
