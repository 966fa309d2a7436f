package handlers

import (
	"errors"
	"net/http"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/camera"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/websocket"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/types"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/wire"
	"github.com/gin-gonic/gin"
)

type CameraHandler struct {
	updates *websocket.SocketIOServer
}

func NewCameraHandler(updates *websocket.SocketIOServer) *CameraHandler {
	return &CameraHandler{updates: updates}
}

// GetCamera returns the capture device connectivity metadata.
// GET /v1/camera
func (h *CameraHandler) GetCamera(c *gin.Context) {
	c.JSON(http.StatusOK, h.updates.Store().Snapshot().Wire().Camera)
}

// AttachCamera attaches a capture device for camera mode.
// POST /v1/camera
func (h *CameraHandler) AttachCamera(c *gin.Context) {
	var req wire.AttachCameraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return
	}

	source, err := camera.NewSource(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return
	}

	if v4l2, ok := source.(*camera.V4L2Source); ok && !v4l2.Available(c.Request.Context()) {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "v4l2 device " + source.Label() + " is not available"})
		return
	}

	if err := h.updates.Cameras().Attach(source); err != nil {
		c.JSON(http.StatusConflict, types.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Camera attached",
		"camera":  h.updates.Store().Snapshot().Wire().Camera,
	})
}

// DetachCamera detaches the capture device. Stop navigation first when
// a camera run is active.
// DELETE /v1/camera
func (h *CameraHandler) DetachCamera(c *gin.Context) {
	if err := h.updates.Cameras().Detach(); err != nil {
		status := http.StatusConflict
		if errors.Is(err, camera.ErrNoSource) {
			status = http.StatusNotFound
		}
		c.JSON(status, types.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Camera detached"})
}
