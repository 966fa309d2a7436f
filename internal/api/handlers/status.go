package handlers

import (
	"net/http"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/websocket"
	"github.com/gin-gonic/gin"
)

type StatusHandler struct {
	updates *websocket.SocketIOServer
}

func NewStatusHandler(updates *websocket.SocketIOServer) *StatusHandler {
	return &StatusHandler{updates: updates}
}

// GetStatus returns the full navigation state snapshot.
// GET /v1/status (also mounted at /api/status for older clients)
func (h *StatusHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.updates.Store().Snapshot().Wire())
}
