package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/actowiz/text-submission-api/internal/core/domain"
)

// RBAC rejects the request with domain.ErrForbidden unless the principal's role
// is one of allowedRoles. It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := append([]domain.Role(nil), allowedRoles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(domain.Role)
			if !domain.RoleIn(role, allowed...) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
