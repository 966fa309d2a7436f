package navigation

import (
	"context"
	"time"
)

// Broadcaster delivers events to every connected client.
type Broadcaster interface {
	Broadcast(event string, payload any)
}

// Recorder persists run boundaries and the readings taken during them.
type Recorder interface {
	RunStarted(ctx context.Context, runID, mode string, at time.Time) error
	RunStopped(ctx context.Context, runID string, at time.Time) error
	ReadingTaken(ctx context.Context, runID string, state State) error
}

// Feed supplies the readings for one run. Stream produces until ctx is
// cancelled; the channel closes when the source ends on its own.
type Feed interface {
	Stream(ctx context.Context) (<-chan Reading, error)
}

// FeedFunc adapts a function to the Feed interface.
type FeedFunc func(ctx context.Context) (<-chan Reading, error)

func (f FeedFunc) Stream(ctx context.Context) (<-chan Reading, error) { return f(ctx) }
