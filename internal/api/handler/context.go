package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/actowiz/text-submission-api/internal/api/middleware"
	"github.com/actowiz/text-submission-api/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware. A
// missing id or role means the middleware did not run for this route.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	id, _ := c.Get(middleware.CtxUserID).(string)
	role, _ := c.Get(middleware.CtxRole).(domain.Role)
	if id == "" || !role.Valid() {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	email, _ := c.Get(middleware.CtxEmail).(string)
	return domain.Principal{ID: id, Email: email, Role: role}, nil
}

// bindAndValidate decodes the body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return validationError(err)
	}
	return nil
}
