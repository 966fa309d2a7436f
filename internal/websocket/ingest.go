package websocket

import (
	"net/http"
	"sync"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/camera"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Phone apps connect from arbitrary origins
	},
}

// IngestServer is a plain WebSocket endpoint (not Socket.IO) that
// accepts binary JPEG frames from the phone app and feeds them to the
// attached push camera. One pusher streams at a time.
type IngestServer struct {
	cameras *camera.Manager

	mu   sync.Mutex
	busy bool
}

// NewIngestServer creates the frame ingest endpoint.
func NewIngestServer(cameras *camera.Manager) *IngestServer {
	return &IngestServer{cameras: cameras}
}

// HandleFrames upgrades the connection and pumps frames until the
// pusher goes away. The pushing peer is the capture device, so its
// departure takes the camera with it.
func (s *IngestServer) HandleFrames(c *gin.Context) {
	src, ok := s.cameras.Push()
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "No push camera attached"})
		return
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"error": "Another client is already streaming"})
		return
	}
	s.busy = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	// Upgrade connection
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warnf("[ingest] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	logger.Infof("[ingest] pusher connected from %s", c.ClientIP())

	frames := 0
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warnf("[ingest] read error: %v", err)
			}
			break
		}
		if mt != websocket.BinaryMessage {
			logger.Tracef("[ingest] ignoring non-binary message (type %d)", mt)
			continue
		}
		src.Offer(data)
		frames++
	}

	logger.Infof("[ingest] pusher disconnected after %d frames", frames)

	src.Close()
	s.cameras.SourceLost(src)
}
