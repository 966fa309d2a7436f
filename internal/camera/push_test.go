package camera

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPushDelivery(t *testing.T) {
	src := NewPushSource("phone")
	require.Equal(t, KindPush, src.Kind())

	// Frames offered before a capture starts are dropped.
	src.Offer([]byte("early"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frames, err := src.Frames(ctx)
	require.NoError(t, err)

	select {
	case f := <-frames:
		t.Fatalf("unexpected early frame %q", f)
	case <-time.After(20 * time.Millisecond):
	}

	src.Offer([]byte("frame-1"))
	select {
	case f := <-frames:
		require.Equal(t, "frame-1", string(f))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
	}
}

func TestPushDropsOldestUnderBackpressure(t *testing.T) {
	src := NewPushSource("phone")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frames, err := src.Frames(ctx)
	require.NoError(t, err)

	// One more frame than the queue holds: the oldest goes.
	for i := 0; i <= 8; i++ {
		src.Offer([]byte(fmt.Sprintf("f%d", i)))
	}

	var got []string
	for i := 0; i < 8; i++ {
		select {
		case f := <-frames:
			got = append(got, string(f))
		case <-time.After(2 * time.Second):
			t.Fatal("timed out draining frames")
		}
	}
	require.Equal(t, "f1", got[0])
	require.Equal(t, "f8", got[7])
}

func TestPushCloseEndsCapture(t *testing.T) {
	src := NewPushSource("phone")

	frames, err := src.Frames(context.Background())
	require.NoError(t, err)

	src.Close()

	select {
	case _, ok := <-frames:
		require.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("frame channel did not close")
	}

	// Offers after close are ignored, captures refused.
	src.Offer([]byte("late"))
	_, err = src.Frames(context.Background())
	require.ErrorIs(t, err, ErrSourceClosed)
}

func TestPushSingleCapture(t *testing.T) {
	src := NewPushSource("phone")

	ctx, cancel := context.WithCancel(context.Background())
	_, err := src.Frames(ctx)
	require.NoError(t, err)

	_, err = src.Frames(ctx)
	require.ErrorIs(t, err, ErrSourceBusy)

	// Cancelling releases the slot for the next run.
	cancel()
	require.Eventually(t, func() bool {
		ctx2, cancel2 := context.WithCancel(context.Background())
		defer cancel2()
		_, err := src.Frames(ctx2)
		if err == nil {
			cancel2()
			return true
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}
