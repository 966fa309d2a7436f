package camera

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/logger"
)

// MJPEGSource pulls frames from a multipart/x-mixed-replace stream, the
// format IP cameras and phone webcam apps serve.
type MJPEGSource struct {
	label  string
	url    string
	client *http.Client
}

func NewMJPEGSource(label, url string) *MJPEGSource {
	return &MJPEGSource{
		label: label,
		url:   url,
		client: &http.Client{
			// The response body never ends, so only the dial and header
			// phases get a deadline.
			Transport: &http.Transport{
				ResponseHeaderTimeout: 10 * time.Second,
			},
		},
	}
}

func (s *MJPEGSource) Label() string { return s.label }
func (s *MJPEGSource) Kind() string  { return KindMJPEG }

func (s *MJPEGSource) Frames(ctx context.Context) (<-chan []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build stream request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("stream returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
		resp.Body.Close()
		return nil, fmt.Errorf("not an mjpeg stream: content-type %q", contentType)
	}

	reader := multipart.NewReader(resp.Body, params["boundary"])
	out := make(chan []byte, 8)
	go func() {
		defer close(out)
		defer resp.Body.Close()

		for {
			part, err := reader.NextPart()
			if err != nil {
				if err != io.EOF && ctx.Err() == nil {
					logger.Warnf("[camera] mjpeg stream %s ended: %v", s.url, err)
				}
				return
			}

			frame, err := io.ReadAll(part)
			part.Close()
			if err != nil {
				if ctx.Err() == nil {
					logger.Warnf("[camera] mjpeg stream %s read: %v", s.url, err)
				}
				return
			}

			select {
			case out <- frame:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
