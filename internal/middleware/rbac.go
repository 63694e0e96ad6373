package middleware

import (
	"shopdesk/internal/common"

	"github.com/labstack/echo/v4"
)

// RequireRole admits callers whose role is one of roles. It must run after the
// JWT middleware.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := common.GetPrincipalFromContext(c.Request().Context())
			if !ok {
				return common.SendUnauthorizedError(c)
			}
			if _, ok := allowed[principal.Role]; !ok {
				return common.SendForbiddenError(c)
			}
			return next(c)
		}
	}
}

// RequireStaff admits admin and staff callers.
func RequireStaff() echo.MiddlewareFunc {
	return RequireRole(common.RoleAdmin, common.RoleStaff)
}
