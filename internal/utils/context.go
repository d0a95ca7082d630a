package utils

import (
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/workhub/internal/domain"
)

// Context keys set by the JWT middleware.
const (
	UserIDKey = "user_id"
	RoleKey   = "role"
	ClaimsKey = "claims"
)

// CurrentUserID returns the authenticated user id from the request context
func CurrentUserID(c echo.Context) (string, error) {
	uid, ok := c.Get(UserIDKey).(string)
	if !ok || uid == "" {
		return "", domain.ErrUnauthorized
	}
	return uid, nil
}
