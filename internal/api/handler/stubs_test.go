package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/actowiz/text-submission-api/internal/api/middleware"
	"github.com/actowiz/text-submission-api/internal/core/domain"
	"github.com/actowiz/text-submission-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, email, password, role string) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, email, password, role string) (*domain.User, error) {
	return s.registerFn(ctx, email, password, role)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

type stubSubmissionService struct {
	submitFn func(ctx context.Context, principal domain.Principal, text string) (*domain.TextSubmission, error)
	listFn   func(ctx context.Context) ([]*domain.SubmissionView, error)
}

func (s *stubSubmissionService) Submit(ctx context.Context, principal domain.Principal, text string) (*domain.TextSubmission, error) {
	return s.submitFn(ctx, principal, text)
}

func (s *stubSubmissionService) ListSubmissions(ctx context.Context) ([]*domain.SubmissionView, error) {
	return s.listFn(ctx)
}

type stubUserService struct {
	listFn   func(ctx context.Context) ([]*domain.User, error)
	getFn    func(ctx context.Context, id string) (*domain.User, error)
	updateFn func(ctx context.Context, actor domain.Principal, targetID, role string) (*ports.RoleChange, error)
	deleteFn func(ctx context.Context, actor domain.Principal, targetID string) error
	statsFn  func(ctx context.Context) (*domain.Statistics, error)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) UpdateRole(ctx context.Context, actor domain.Principal, targetID, role string) (*ports.RoleChange, error) {
	return s.updateFn(ctx, actor, targetID, role)
}

func (s *stubUserService) DeleteUser(ctx context.Context, actor domain.Principal, targetID string) error {
	return s.deleteFn(ctx, actor, targetID)
}

func (s *stubUserService) Statistics(ctx context.Context) (*domain.Statistics, error) {
	return s.statsFn(ctx)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newJSONContext builds a request context, optionally authenticated as p.
func newJSONContext(e *echo.Echo, method, target, body string, p *domain.Principal) (echo.Context, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if p != nil {
		c.Set(middleware.CtxUserID, p.ID)
		c.Set(middleware.CtxEmail, p.Email)
		c.Set(middleware.CtxRole, p.Role)
	}
	return c, rec
}

func httpStatus(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return http.StatusInternalServerError
}
