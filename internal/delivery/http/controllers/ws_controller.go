package controllers

import (
	"log/slog"
	"net/http"
)

// PushServer upgrades a request to a live notification stream for userID.
type PushServer interface {
	Serve(w http.ResponseWriter, r *http.Request, userID string) error
}

// WSController streams notifications over WebSocket.
type WSController struct {
	Logger *slog.Logger
	Hub    PushServer
}

// NewWSController creates a WSController with the given logger and hub.
func NewWSController(logger *slog.Logger, hub PushServer) *WSController {
	return &WSController{
		Logger: logger,
		Hub:    hub,
	}
}

// Connect godoc
// @Summary Notification stream
// @Description Upgrade to a WebSocket that receives {"event":"notification","data":Notification} frames for the caller. Browsers pass the JWT as the token query parameter.
// @Tags notifications
// @Param token query string false "JWT when the Authorization header cannot be set"
// @Success 101 "Switching protocols"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /ws [get]
func (c *WSController) Connect(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	// The upgrader has already written an HTTP error when Serve fails.
	if err := c.Hub.Serve(w, r, userID); err != nil {
		c.Logger.WarnContext(r.Context(), "websocket connect failed", "user_id", userID, "err", err)
	}
}
