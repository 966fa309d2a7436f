package navigation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/logger"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/types"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/wire"
)

var (
	// ErrAlreadyRunning is returned by Start while a run is active.
	ErrAlreadyRunning = errors.New("navigation already running")
	// ErrNoCamera is returned by Start in camera mode when no camera feed is wired.
	ErrNoCamera = errors.New("no camera attached")
	// ErrUnknownMode is returned by Start for modes other than demo and camera.
	ErrUnknownMode = errors.New("unknown navigation mode")
)

// Deps holds the narrow dependencies required by the engine.
type Deps struct {
	store       *Store
	recorder    Recorder
	broadcaster Broadcaster
	demo        Feed
	camera      Feed
	obstacleCM  int
	now         func() time.Time
	newID       func() string
}

// NewDeps builds a dependency bundle for the engine. camera may be nil
// when no camera support is wired.
func NewDeps(
	store *Store,
	recorder Recorder,
	broadcaster Broadcaster,
	demo Feed,
	camera Feed,
	obstacleCM int,
	now func() time.Time,
	newID func() string,
) Deps {
	return Deps{
		store:       store,
		recorder:    recorder,
		broadcaster: broadcaster,
		demo:        demo,
		camera:      camera,
		obstacleCM:  obstacleCM,
		now:         now,
		newID:       newID,
	}
}

func (d Deps) Store() *Store { return d.store }
func (d Deps) Now() time.Time {
	if d.now != nil {
		return d.now()
	}
	return time.Now()
}
func (d Deps) NewID() string {
	if d.newID != nil {
		return d.newID()
	}
	return types.NewID()
}

// Engine runs the guidance loop. One run is active at a time; readings
// from the run's feed update the shared store, are persisted, and are
// broadcast to all connected clients.
type Engine struct {
	deps Deps

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	runID  string
}

func NewEngine(deps Deps) *Engine {
	return &Engine{deps: deps}
}

// Running reports whether a run is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancel != nil
}

// Start begins a run in the given mode. An empty mode defaults to demo.
// The run keeps going until Stop is called or the feed ends on its own.
func (e *Engine) Start(ctx context.Context, mode string) (State, error) {
	if mode == "" {
		mode = ModeDemo
	}

	var feed Feed
	switch mode {
	case ModeDemo:
		feed = e.deps.demo
	case ModeCamera:
		feed = e.deps.camera
		if feed == nil {
			return State{}, ErrNoCamera
		}
	default:
		return State{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		return e.deps.store.Snapshot(), ErrAlreadyRunning
	}

	// The run outlives the triggering callback, so it gets its own context.
	runCtx, cancel := context.WithCancel(context.Background())

	readings, err := feed.Stream(runCtx)
	if err != nil {
		cancel()
		return State{}, err
	}

	runID := e.deps.NewID()
	now := e.deps.Now()
	if err := e.deps.recorder.RunStarted(ctx, runID, mode, now); err != nil {
		cancel()
		return State{}, fmt.Errorf("failed to record run start: %w", err)
	}

	e.cancel = cancel
	e.done = make(chan struct{})
	e.runID = runID

	state := e.deps.store.Update(func(s *State) {
		s.Running = true
		s.Mode = mode
		s.UpdatedAt = now
	})

	go e.run(runCtx, runID, readings, e.done)

	logger.Infof("[nav] run %s started (mode=%s)", runID, mode)
	return state, nil
}

// Stop ends the active run. Stopping an idle engine is a no-op apart
// from the instruction update, so repeated stop taps stay harmless.
func (e *Engine) Stop(ctx context.Context) State {
	e.mu.Lock()
	cancel := e.cancel
	done := e.done
	runID := e.runID
	e.cancel = nil
	e.done = nil
	e.runID = ""
	e.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	now := e.deps.Now()
	if runID != "" {
		if err := e.deps.recorder.RunStopped(ctx, runID, now); err != nil {
			logger.Errorf("[nav] failed to record stop for run %s: %v", runID, err)
		}
		logger.Infof("[nav] run %s stopped", runID)
	}

	return e.deps.store.Update(func(s *State) {
		s.Running = false
		s.LastInstruction = InstructionStopped
		s.UpdatedAt = now
	})
}

func (e *Engine) run(ctx context.Context, runID string, readings <-chan Reading, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case reading, ok := <-readings:
			if !ok {
				e.feedLost(runID)
				return
			}
			e.apply(runID, reading)
		}
	}
}

// apply folds one reading into the state, persists it and broadcasts
// the update.
func (e *Engine) apply(runID string, r Reading) {
	now := e.deps.Now()

	obstacle := r.Distance < e.deps.obstacleCM
	instruction := InstructionClear
	if obstacle {
		instruction = TurnInstruction(r.Direction)
	}

	state := e.deps.store.Update(func(s *State) {
		s.Distance = r.Distance
		s.Direction = r.Direction
		s.ObstacleDetected = obstacle
		s.LastInstruction = instruction
		s.UpdatedAt = now
	})

	if err := e.deps.recorder.ReadingTaken(context.Background(), runID, state); err != nil {
		logger.Errorf("[nav] failed to record reading for run %s: %v", runID, err)
	}

	e.deps.broadcaster.Broadcast(wire.EventNavigationUpdate, state.Wire())
}

// feedLost handles the feed closing mid-run, e.g. the camera going away.
// The run is stopped and everyone is told.
func (e *Engine) feedLost(runID string) {
	e.mu.Lock()
	if e.runID != runID {
		// A Stop raced the feed closing; it already cleaned up.
		e.mu.Unlock()
		return
	}
	cancel := e.cancel
	e.cancel = nil
	e.done = nil
	e.runID = ""
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	logger.Warnf("[nav] run %s lost its feed; stopping", runID)

	now := e.deps.Now()
	if err := e.deps.recorder.RunStopped(context.Background(), runID, now); err != nil {
		logger.Errorf("[nav] failed to record stop for run %s: %v", runID, err)
	}

	state := e.deps.store.Update(func(s *State) {
		s.Running = false
		s.LastInstruction = InstructionStopped
		s.UpdatedAt = now
	})

	e.deps.broadcaster.Broadcast(wire.EventNavigationStopped, wire.MessagePayload{
		Message: "Navigation system stopped",
	})
	e.deps.broadcaster.Broadcast(wire.EventNavigationUpdate, state.Wire())
}
