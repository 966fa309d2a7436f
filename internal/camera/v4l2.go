package camera

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/logger"
)

// Default capture geometry for V4L2 grabs.
const (
	defaultWidth  = 640
	defaultHeight = 480
	defaultFPS    = 10
)

// JPEG start-of-image and end-of-image markers, used to split the
// image2pipe byte stream into frames.
var (
	jpegSOI = []byte{0xFF, 0xD8}
	jpegEOI = []byte{0xFF, 0xD9}
)

// V4L2Source captures JPEG frames from a local V4L2 device with an
// exec'd ffmpeg, keeping the binary free of cgo media stacks.
type V4L2Source struct {
	label  string
	device string
	width  int
	height int
	fps    int
}

func NewV4L2Source(label, device string, fps int) *V4L2Source {
	if fps <= 0 {
		fps = defaultFPS
	}
	return &V4L2Source{
		label:  label,
		device: device,
		width:  defaultWidth,
		height: defaultHeight,
		fps:    fps,
	}
}

func (s *V4L2Source) Label() string { return s.label }
func (s *V4L2Source) Kind() string  { return KindV4L2 }

// Available reports whether the device answers a v4l2-ctl probe. Hosts
// without v4l2-ctl skip the probe and find out at capture time.
func (s *V4L2Source) Available(ctx context.Context) bool {
	if _, err := exec.LookPath("v4l2-ctl"); err != nil {
		return true
	}
	cmd := exec.CommandContext(ctx, "v4l2-ctl", "--device", s.device, "--info")
	return cmd.Run() == nil
}

// Frames starts a continuous ffmpeg capture and yields one JPEG per frame.
func (s *V4L2Source) Frames(ctx context.Context) (<-chan []byte, error) {
	cmd := exec.CommandContext(ctx,
		"ffmpeg",
		"-f", "v4l2",
		"-video_size", fmt.Sprintf("%dx%d", s.width, s.height),
		"-r", strconv.Itoa(s.fps),
		"-i", s.device,
		"-f", "image2pipe",
		"-c:v", "mjpeg",
		"-q:v", "3",
		"-",
	)
	cmd.Stderr = io.Discard

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	out := make(chan []byte, 8)
	go func() {
		defer close(out)
		defer cmd.Wait()

		buf := make([]byte, 64*1024)
		var pending []byte
		for {
			n, err := stdout.Read(buf)
			if n > 0 {
				pending = append(pending, buf[:n]...)
				for {
					frame, rest, ok := cutJPEG(pending)
					if !ok {
						break
					}
					pending = append(pending[:0], rest...)

					select {
					case out <- frame:
					case <-ctx.Done():
						return
					}
				}
			}
			if err != nil {
				if err != io.EOF && ctx.Err() == nil {
					logger.Warnf("[camera] v4l2 read from %s: %v", s.device, err)
				}
				return
			}
		}
	}()
	return out, nil
}

// cutJPEG extracts the first complete JPEG (SOI..EOI) from data. The
// returned frame is a copy; rest aliases data.
func cutJPEG(data []byte) (frame, rest []byte, ok bool) {
	start := bytes.Index(data, jpegSOI)
	if start == -1 {
		return nil, nil, false
	}
	end := bytes.Index(data[start+2:], jpegEOI)
	if end == -1 {
		return nil, nil, false
	}
	end += start + 2 + len(jpegEOI)

	frame = append([]byte(nil), data[start:end]...)
	return frame, data[end:], true
}
