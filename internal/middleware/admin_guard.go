package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/workhub/internal/domain"
	"github.com/sudo-init-do/workhub/internal/utils"
)

// AdminGuard ensures only admin users can access admin routes
func AdminGuard(next echo.HandlerFunc) echo.HandlerFunc {
	return RequireRoles(domain.RoleAdmin)(next)
}

// RequireRoles ensures the requester's role is one of the allowed roles.
// Usage: group.Use(RequireRoles(domain.RoleAdmin))
func RequireRoles(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(utils.RoleKey).(string)
			if role == "" {
				return utils.WriteError(c, fmt.Errorf("role missing: %w", domain.ErrForbidden))
			}
			for _, r := range roles {
				if role == string(r) {
					return next(c)
				}
			}
			return utils.WriteError(c, fmt.Errorf("role %s: %w", role, domain.ErrForbidden))
		}
	}
}
