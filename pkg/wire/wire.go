// Package wire defines the JSON payload shapes shared by the Socket.IO
// events and the REST API. Field names are part of the public API and
// existing web and phone clients depend on them.
package wire

// Event names emitted by the server.
const (
	EventConnected          = "connected"
	EventNavigationUpdate   = "navigation_update"
	EventNavigationStarted  = "navigation_started"
	EventNavigationStopped  = "navigation_stopped"
	EventCameraConnected    = "camera_connected"
	EventCameraDisconnected = "camera_disconnected"
	EventError              = "error"
)

// Event names accepted from clients.
const (
	EventStartNavigation = "start_navigation"
	EventStopNavigation  = "stop_navigation"
)

// StatePayload is the full navigation state pushed on every update and
// returned by GET /v1/status.
type StatePayload struct {
	IsRunning        bool          `json:"is_running"`
	Mode             string        `json:"mode"`
	Distance         int           `json:"distance"`
	Direction        string        `json:"direction"`
	LastInstruction  string        `json:"last_instruction"`
	ObstacleDetected bool          `json:"obstacle_detected"`
	Camera           CameraPayload `json:"camera"`
	// UpdatedAt is the last state mutation in ms since epoch (0 when never).
	UpdatedAt int64 `json:"updated_at"`
}

// CameraPayload is the capture device connectivity metadata inside the state.
type CameraPayload struct {
	Connected      bool   `json:"connected"`
	Label          string `json:"label,omitempty"`
	Kind           string `json:"kind,omitempty"`
	FramesReceived int64  `json:"frames_received"`
	// LastFrameAt is ms since epoch (0 when no frame arrived yet).
	LastFrameAt int64   `json:"last_frame_at"`
	FPS         float64 `json:"fps"`
}

// MessagePayload is the shape of the simple acknowledgement events
// (connected, navigation_started, navigation_stopped).
type MessagePayload struct {
	Message string `json:"message"`
}

// ErrorPayload is the shape of error events.
type ErrorPayload struct {
	Message string `json:"message"`
}

// StartNavigationPayload is the optional payload of start_navigation.
type StartNavigationPayload struct {
	// Mode selects the data source: "demo" or "camera". Empty defaults to
	// "demo" unless a capture device is attached.
	Mode string `json:"mode,omitempty"`
}

// CameraEventPayload is the payload of camera_connected / camera_disconnected.
type CameraEventPayload struct {
	Label  string `json:"label,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// AttachCameraRequest is the body of POST /v1/camera.
type AttachCameraRequest struct {
	// Kind is one of "v4l2", "mjpeg" or "push".
	Kind string `json:"kind" binding:"required"`
	// Label names the camera in status payloads. Defaults per kind.
	Label string `json:"label,omitempty"`
	// Device is the V4L2 device path (v4l2 only), e.g. /dev/video0.
	Device string `json:"device,omitempty"`
	// URL is the MJPEG stream URL (mjpeg only).
	URL string `json:"url,omitempty"`
	// FPS overrides the capture rate for v4l2 grabs.
	FPS float64 `json:"fps,omitempty"`
}

// HistoryEntry is one recorded navigation update in GET /v1/history.
type HistoryEntry struct {
	ID          string `json:"id"`
	RunID       string `json:"run_id"`
	At          int64  `json:"at"`
	Distance    int    `json:"distance"`
	Direction   string `json:"direction"`
	Obstacle    bool   `json:"obstacle"`
	Instruction string `json:"instruction"`
	Source      string `json:"source"`
}

// HistoryResponse is the body of GET /v1/history.
type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}
