package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/actowiz/text-submission-api/internal/api/metrics"
	"github.com/actowiz/text-submission-api/internal/core/ports"
)

type SubmissionHandler struct {
	service ports.SubmissionService
}

func NewSubmissionHandler(service ports.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

type submitRequest struct {
	Text string `json:"text" validate:"required"`
}

// Submit stores a text on behalf of the caller and announces it to real-time
// listeners.
//
// @Summary      Submit text
// @Tags         text
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitRequest  true  "Text to submit"
// @Success      201   {object}  domain.TextSubmission
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/text/submit [post]
func (h *SubmissionHandler) Submit(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req submitRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	submission, err := h.service.Submit(c.Request().Context(), principal, req.Text)
	if err != nil {
		return err
	}

	metrics.SubmissionsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, submission)
}

// List returns every submission, newest first, with the owner's email.
//
// @Summary      List submissions
// @Tags         text
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.SubmissionView
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/text/submissions [get]
func (h *SubmissionHandler) List(c echo.Context) error {
	if _, err := ctxPrincipal(c); err != nil {
		return err
	}

	submissions, err := h.service.ListSubmissions(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, submissions)
}
