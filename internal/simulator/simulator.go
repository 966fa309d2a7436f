package simulator

import (
	"context"
	"math/rand"
	"time"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/navigation"
)

var directions = []string{navigation.DirectionLeft, navigation.DirectionRight}

// Stream emits a random reading every interval until ctx is cancelled,
// standing in for real sensing hardware during demos. The first reading
// goes out immediately so starting a run feels instant.
func Stream(ctx context.Context, interval time.Duration) <-chan navigation.Reading {
	out := make(chan navigation.Reading)
	go func() {
		defer close(out)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case out <- next():
			case <-ctx.Done():
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return out
}

func next() navigation.Reading {
	span := navigation.MaxDistanceCM - navigation.MinDistanceCM
	return navigation.Reading{
		Distance:  navigation.MinDistanceCM + rand.Intn(span+1),
		Direction: directions[rand.Intn(len(directions))],
	}
}

// Feed adapts Stream to the engine's feed contract.
type Feed struct {
	Interval time.Duration
}

func (f Feed) Stream(ctx context.Context) (<-chan navigation.Reading, error) {
	return Stream(ctx, f.Interval), nil
}
