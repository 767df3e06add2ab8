package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// ListenerRegistry attaches an upgraded connection as a real-time listener.
type ListenerRegistry interface {
	ServeWS(w http.ResponseWriter, r *http.Request, userID string) error
}

type WebSocketHandler struct {
	registry ListenerRegistry
	log      zerolog.Logger
}

func NewWebSocketHandler(registry ListenerRegistry, log zerolog.Logger) *WebSocketHandler {
	return &WebSocketHandler{registry: registry, log: log}
}

// Connect upgrades the request to a websocket that receives a newSubmission
// message for every accepted submission.
//
// @Summary      Real-time submission feed
// @Tags         realtime
// @Security     BearerAuth
// @Param        token  query  string  false  "Bearer token when the Authorization header cannot be set"
// @Success      101
// @Failure      401  {object}  map[string]string
// @Router       /ws [get]
func (h *WebSocketHandler) Connect(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	// The upgrader writes its own error response, so the response may already
	// be committed when ServeWS fails.
	if err := h.registry.ServeWS(c.Response(), c.Request(), principal.ID); err != nil {
		h.log.Warn().Err(err).Str("user_id", principal.ID).Msg("websocket connect failed")
	}
	return nil
}
