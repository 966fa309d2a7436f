// Package camera captures JPEG frames from whatever the user has at
// hand: a local V4L2 device, an IP camera's MJPEG stream, or a phone
// pushing frames over a websocket.
package camera

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/wire"
)

// Kinds of frame sources.
const (
	KindV4L2  = "v4l2"
	KindMJPEG = "mjpeg"
	KindPush  = "push"
)

var (
	// ErrNoSource is returned when no camera is attached.
	ErrNoSource = errors.New("no camera attached")
	// ErrSourceBusy is returned for attach/detach while a run is capturing.
	ErrSourceBusy = errors.New("camera is streaming")
	// ErrAlreadyAttached is returned when attaching over an existing camera.
	ErrAlreadyAttached = errors.New("camera already attached")
	// ErrSourceClosed is returned when capturing from a closed push source.
	ErrSourceClosed = errors.New("camera source closed")
)

// Source produces JPEG frames. Frames starts the capture; the returned
// channel closes when ctx is cancelled or the source ends on its own.
type Source interface {
	Label() string
	Kind() string
	Frames(ctx context.Context) (<-chan []byte, error)
}

// NewSource builds a source from an attach request. Push sources start
// empty; the peer feeds them through the ingest endpoint afterwards.
func NewSource(req wire.AttachCameraRequest) (Source, error) {
	label := strings.TrimSpace(req.Label)

	switch req.Kind {
	case KindV4L2:
		device := req.Device
		if device == "" {
			device = "/dev/video0"
		}
		if label == "" {
			label = device
		}
		return NewV4L2Source(label, device, int(req.FPS)), nil

	case KindMJPEG:
		if strings.TrimSpace(req.URL) == "" {
			return nil, fmt.Errorf("mjpeg source needs a url")
		}
		if label == "" {
			label = req.URL
		}
		return NewMJPEGSource(label, req.URL), nil

	case KindPush:
		if label == "" {
			label = "phone"
		}
		return NewPushSource(label), nil

	default:
		return nil, fmt.Errorf("unknown camera kind %q", req.Kind)
	}
}
