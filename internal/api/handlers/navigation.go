package handlers

import (
	"errors"
	"net/http"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/navigation"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/websocket"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/types"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/wire"
	"github.com/gin-gonic/gin"
)

type NavigationHandler struct {
	updates *websocket.SocketIOServer
}

func NewNavigationHandler(updates *websocket.SocketIOServer) *NavigationHandler {
	return &NavigationHandler{updates: updates}
}

// StartNavigation begins a run, mirroring the start_navigation socket
// event. The body is optional; without a mode an attached camera wins
// over the simulator.
// POST /v1/navigation/start
func (h *NavigationHandler) StartNavigation(c *gin.Context) {
	var req wire.StartNavigationPayload
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
			return
		}
	}

	mode := navigation.ResolveMode(req.Mode, h.updates.Cameras().Attached())
	if _, err := h.updates.Engine().Start(c.Request.Context(), mode); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, navigation.ErrAlreadyRunning):
			status = http.StatusConflict
		case errors.Is(err, navigation.ErrNoCamera), errors.Is(err, navigation.ErrUnknownMode):
			status = http.StatusBadRequest
		}
		c.JSON(status, types.ErrorResponse{Error: err.Error()})
		return
	}

	state := h.updates.Store().Snapshot()
	h.updates.Broadcast(wire.EventNavigationUpdate, state.Wire())

	c.JSON(http.StatusOK, gin.H{
		"message": "Navigation system started",
		"state":   state.Wire(),
	})
}

// StopNavigation ends the run. Stopping an idle system answers 200 so
// the stop button never errors.
// POST /v1/navigation/stop
func (h *NavigationHandler) StopNavigation(c *gin.Context) {
	state := h.updates.Engine().Stop(c.Request.Context())
	h.updates.Broadcast(wire.EventNavigationUpdate, state.Wire())

	c.JSON(http.StatusOK, gin.H{
		"message": "Navigation system stopped",
		"state":   state.Wire(),
	})
}
