package navigation

import (
	"fmt"
	"sync"
	"time"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/wire"
)

// Modes a navigation run can operate in.
const (
	ModeDemo   = "demo"
	ModeCamera = "camera"
)

// Directions reported in readings.
const (
	DirectionLeft  = "left"
	DirectionRight = "right"
)

// Sensor range for obstacle distances, in centimeters.
const (
	MinDistanceCM = 10
	MaxDistanceCM = 200
)

// Instructions surfaced to the user. Obstacle instructions are built
// with TurnInstruction.
const (
	InstructionClear   = "Path is clear"
	InstructionStopped = "Navigation stopped"
)

// TurnInstruction renders the spoken guidance for an obstacle ahead.
func TurnInstruction(direction string) string {
	return fmt.Sprintf("Turn %s now", direction)
}

// ResolveMode picks the run mode for a start request. An explicit mode
// wins; otherwise an attached camera upgrades the default demo mode.
func ResolveMode(requested string, cameraAttached bool) string {
	if requested != "" {
		return requested
	}
	if cameraAttached {
		return ModeCamera
	}
	return ModeDemo
}

// Reading is a single obstacle measurement, either simulated or derived
// from a camera frame. Distance is in centimeters.
type Reading struct {
	Distance  int
	Direction string
}

// CameraInfo describes the attached frame source, if any.
type CameraInfo struct {
	Connected      bool
	Label          string
	Kind           string
	FramesReceived int64
	LastFrameAt    time.Time
	FPS            float64
}

// State is the full navigation snapshot broadcast to clients and served
// from the status endpoint.
type State struct {
	Running          bool
	Mode             string
	Distance         int
	Direction        string
	LastInstruction  string
	ObstacleDetected bool
	Camera           CameraInfo
	UpdatedAt        time.Time
}

// Wire converts the snapshot to its broadcast payload.
func (s State) Wire() wire.StatePayload {
	p := wire.StatePayload{
		IsRunning:        s.Running,
		Mode:             s.Mode,
		Distance:         s.Distance,
		Direction:        s.Direction,
		LastInstruction:  s.LastInstruction,
		ObstacleDetected: s.ObstacleDetected,
		Camera: wire.CameraPayload{
			Connected:      s.Camera.Connected,
			Label:          s.Camera.Label,
			Kind:           s.Camera.Kind,
			FramesReceived: s.Camera.FramesReceived,
			FPS:            s.Camera.FPS,
		},
	}
	if !s.UpdatedAt.IsZero() {
		p.UpdatedAt = s.UpdatedAt.UnixMilli()
	}
	if !s.Camera.LastFrameAt.IsZero() {
		p.Camera.LastFrameAt = s.Camera.LastFrameAt.UnixMilli()
	}
	return p
}

// Store holds the current navigation state behind a lock so Socket.IO
// callbacks, the engine loop and HTTP handlers can touch it concurrently.
type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{state: State{Mode: ModeDemo}}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Update applies fn under the write lock and returns the resulting
// snapshot.
func (s *Store) Update(fn func(*State)) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	return s.state
}
