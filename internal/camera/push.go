package camera

import (
	"context"
	"sync"
)

// PushSource is fed frames by a network peer, typically the phone app
// posting camera frames over the ingest websocket. Frames offered while
// no run is capturing are dropped.
type PushSource struct {
	label string

	mu     sync.Mutex
	sub    chan []byte
	closed bool
}

func NewPushSource(label string) *PushSource {
	return &PushSource{label: label}
}

func (s *PushSource) Label() string { return s.label }
func (s *PushSource) Kind() string  { return KindPush }

// Offer hands a frame to the active capture, dropping the oldest queued
// frame under backpressure so guidance always works on fresh frames.
func (s *PushSource) Offer(frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sub == nil {
		return
	}
	select {
	case s.sub <- frame:
	default:
		select {
		case <-s.sub:
		default:
		}
		select {
		case s.sub <- frame:
		default:
		}
	}
}

// Close marks the peer gone. An active capture sees its frame channel
// close.
func (s *PushSource) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.sub != nil {
		close(s.sub)
		s.sub = nil
	}
}

func (s *PushSource) Frames(ctx context.Context) (<-chan []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSourceClosed
	}
	if s.sub != nil {
		return nil, ErrSourceBusy
	}

	ch := make(chan []byte, 8)
	s.sub = ch

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		if s.sub == ch {
			s.sub = nil
			close(ch)
		}
		s.mu.Unlock()
	}()

	return ch, nil
}
