package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/workhub/internal/auth"
	"github.com/sudo-init-do/workhub/internal/domain"
	"github.com/sudo-init-do/workhub/internal/utils"
)

// JWTMiddleware validates the bearer token and puts user_id, role and the
// claims on the context. Revoked tokens are rejected.
func JWTMiddleware(issuer *auth.Issuer, revoker auth.Revoker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return utils.WriteError(c, fmt.Errorf("missing bearer token: %w", domain.ErrUnauthorized))
			}

			claims, err := issuer.Parse(strings.TrimSpace(raw))
			if err != nil {
				return utils.WriteError(c, err)
			}
			revoked, err := revoker.Revoked(c.Request().Context(), claims.ID)
			if err != nil {
				return utils.WriteError(c, err)
			}
			if revoked {
				return utils.WriteError(c, fmt.Errorf("token revoked: %w", domain.ErrUnauthorized))
			}

			c.Set(utils.UserIDKey, claims.UserID)
			c.Set(utils.RoleKey, claims.Role)
			c.Set(utils.ClaimsKey, claims)
			return next(c)
		}
	}
}
