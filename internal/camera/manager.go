package camera

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/navigation"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/vision"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/logger"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/wire"
)

// Manager owns the attached camera source, keeps the shared state's
// camera block current and turns frames into guidance readings. It is
// the engine's camera feed.
type Manager struct {
	store       *navigation.Store
	broadcaster navigation.Broadcaster
	analyze     func([]byte) (navigation.Reading, error)
	now         func() time.Time

	mu        sync.Mutex
	source    Source
	streaming bool
}

// NewManager builds a manager. analyze and now may be nil; they default
// to the vision heuristic and the wall clock.
func NewManager(store *navigation.Store, broadcaster navigation.Broadcaster, analyze func([]byte) (navigation.Reading, error), now func() time.Time) *Manager {
	if analyze == nil {
		analyze = vision.FromJPEG
	}
	if now == nil {
		now = time.Now
	}
	return &Manager{
		store:       store,
		broadcaster: broadcaster,
		analyze:     analyze,
		now:         now,
	}
}

// Attached reports whether a source is currently attached.
func (m *Manager) Attached() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.source != nil
}

// Push returns the attached push source, if that is what is attached.
// The frame ingest endpoint uses it to route incoming frames.
func (m *Manager) Push() (*PushSource, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	src, ok := m.source.(*PushSource)
	return src, ok
}

// Attach wires a new source in. Only one camera is attached at a time
// and a capturing camera cannot be swapped mid-run.
func (m *Manager) Attach(source Source) error {
	m.mu.Lock()
	if m.streaming {
		m.mu.Unlock()
		return ErrSourceBusy
	}
	if m.source != nil {
		m.mu.Unlock()
		return ErrAlreadyAttached
	}
	m.source = source
	m.mu.Unlock()

	m.store.Update(func(s *navigation.State) {
		s.Camera = navigation.CameraInfo{
			Connected: true,
			Label:     source.Label(),
			Kind:      source.Kind(),
		}
	})
	m.broadcaster.Broadcast(wire.EventCameraConnected, wire.CameraEventPayload{
		Label: source.Label(),
		Kind:  source.Kind(),
	})

	logger.Infof("[camera] attached %s source %q", source.Kind(), source.Label())
	return nil
}

// Detach removes the attached source. It refuses while a run is
// capturing; stop navigation first.
func (m *Manager) Detach() error {
	m.mu.Lock()
	if m.streaming {
		m.mu.Unlock()
		return ErrSourceBusy
	}
	source := m.source
	if source == nil {
		m.mu.Unlock()
		return ErrNoSource
	}
	m.source = nil
	m.mu.Unlock()

	m.clearCamera()
	m.broadcaster.Broadcast(wire.EventCameraDisconnected, wire.CameraEventPayload{
		Label:  source.Label(),
		Kind:   source.Kind(),
		Reason: "detached",
	})

	logger.Infof("[camera] detached %s source %q", source.Kind(), source.Label())
	return nil
}

// SourceLost handles a source's transport dying while idle, e.g. the
// pushing phone dropping its websocket between runs. During a run the
// pump notices the closed frame channel instead.
func (m *Manager) SourceLost(source Source) {
	m.mu.Lock()
	if m.source != source || m.streaming {
		m.mu.Unlock()
		return
	}
	m.source = nil
	m.mu.Unlock()

	m.clearCamera()
	m.broadcaster.Broadcast(wire.EventCameraDisconnected, wire.CameraEventPayload{
		Label:  source.Label(),
		Kind:   source.Kind(),
		Reason: "connection lost",
	})

	logger.Warnf("[camera] lost %s source %q", source.Kind(), source.Label())
}

// Stream implements the engine's camera feed.
func (m *Manager) Stream(ctx context.Context) (<-chan navigation.Reading, error) {
	m.mu.Lock()
	if m.source == nil {
		m.mu.Unlock()
		return nil, ErrNoSource
	}
	if m.streaming {
		m.mu.Unlock()
		return nil, ErrSourceBusy
	}
	frames, err := m.source.Frames(ctx)
	if err != nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("failed to start capture: %w", err)
	}
	m.streaming = true
	m.mu.Unlock()

	out := make(chan navigation.Reading)
	go m.pump(ctx, frames, out)
	return out, nil
}

// pump analyzes frames into readings until the capture ends.
func (m *Manager) pump(ctx context.Context, frames <-chan []byte, out chan<- navigation.Reading) {
	defer close(out)

	var prev time.Time
	for frame := range frames {
		now := m.now()
		m.store.Update(func(s *navigation.State) {
			s.Camera.FramesReceived++
			s.Camera.LastFrameAt = now
			if !prev.IsZero() {
				if dt := now.Sub(prev).Seconds(); dt > 0 {
					inst := 1 / dt
					if s.Camera.FPS == 0 {
						s.Camera.FPS = inst
					} else {
						// Smooth the rate so one slow frame does not swing it.
						s.Camera.FPS = 0.8*s.Camera.FPS + 0.2*inst
					}
				}
			}
		})
		prev = now

		reading, err := m.analyze(frame)
		if err != nil {
			logger.Warnf("[camera] dropping frame: %v", err)
			continue
		}

		select {
		case out <- reading:
		case <-ctx.Done():
			m.endStream(false)
			return
		}
	}

	// Frame channel closed: either our ctx ended the capture or the
	// source died under us.
	m.endStream(ctx.Err() == nil)
}

func (m *Manager) endStream(died bool) {
	m.mu.Lock()
	m.streaming = false
	var source Source
	if died {
		source = m.source
		m.source = nil
	}
	m.mu.Unlock()

	if !died {
		return
	}

	m.clearCamera()
	payload := wire.CameraEventPayload{Reason: "stream ended"}
	if source != nil {
		payload.Label = source.Label()
		payload.Kind = source.Kind()
		logger.Warnf("[camera] %s source %q ended its stream", source.Kind(), source.Label())
	}
	m.broadcaster.Broadcast(wire.EventCameraDisconnected, payload)
}

func (m *Manager) clearCamera() {
	m.store.Update(func(s *navigation.State) {
		s.Camera = navigation.CameraInfo{}
	})
}
