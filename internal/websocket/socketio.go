package websocket

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/camera"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/config"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/models"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/navigation"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/simulator"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/logger"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/types"
	"github.com/gin-gonic/gin"
	socket "github.com/zishang520/socket.io/servers/socket/v3"
	sockettypes "github.com/zishang520/socket.io/v3/pkg/types"
)

// SocketIOServer wraps Socket.IO for MyEyes. It owns the shared
// navigation state, the guidance engine and the camera manager, and it
// is the broadcaster both of them push events through.
type SocketIOServer struct {
	server  *socket.Server
	store   *navigation.Store
	engine  *navigation.Engine
	cameras *camera.Manager
	sockets sync.Map // Maps socket ID to the connected socket
}

// NewSocketIOServer creates a new Socket.IO v4 server wired to a fresh
// engine and camera manager.
func NewSocketIOServer(db *sql.DB, cfg *config.Config) *SocketIOServer {
	// Create default server options
	opts := socket.DefaultServerOptions()

	// Configure CORS
	opts.SetCors(&sockettypes.Cors{
		Origin:      "*",
		Credentials: false,
	})

	// SocketIOPingInterval defines how frequently the server pings clients to
	// detect stale/disconnected sockets.
	//
	// This influences how quickly a dropped browser or phone stops counting as
	// a listener (no graceful disconnect event is emitted on an abrupt exit).
	const SocketIOPingInterval = 5 * time.Second

	// SocketIOPingTimeout defines how long the server waits before considering a
	// socket dead (no pong received).
	const SocketIOPingTimeout = 15 * time.Second

	opts.SetPingTimeout(SocketIOPingTimeout)
	opts.SetPingInterval(SocketIOPingInterval)

	// Default path of the browser and Python Socket.IO clients.
	opts.SetPath("/socket.io")

	// Create Socket.IO server with options
	server := socket.NewServer(nil, opts)

	s := &SocketIOServer{
		server:  server,
		store:   navigation.NewStore(),
		sockets: sync.Map{},
	}
	s.cameras = camera.NewManager(s.store, s, nil, nil)
	s.engine = navigation.NewEngine(navigation.NewDeps(
		s.store,
		&navigation.SQLRecorder{Queries: models.New(db)},
		s,
		simulator.Feed{Interval: cfg.UpdateInterval},
		s.cameras,
		cfg.ObstacleCM,
		time.Now,
		types.NewID,
	))

	// Set up event handlers
	s.setupHandlers()

	return s
}

// Store exposes the shared state for the HTTP handlers.
func (s *SocketIOServer) Store() *navigation.Store { return s.store }

// Engine exposes the guidance engine for the HTTP handlers.
func (s *SocketIOServer) Engine() *navigation.Engine { return s.engine }

// Cameras exposes the camera manager for the HTTP handlers and the
// frame ingest endpoint.
func (s *SocketIOServer) Cameras() *camera.Manager { return s.cameras }

// setupHandlers configures Socket.IO event handlers
func (s *SocketIOServer) setupHandlers() {
	// Connection handler
	s.server.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		s.handleConnection(client)
	})
}

// Broadcast emits an event to every connected socket. The engine and
// the camera manager use it for navigation updates and camera events.
func (s *SocketIOServer) Broadcast(event string, payload any) {
	s.sockets.Range(func(key, value any) bool {
		client, ok := value.(*socket.Socket)
		if !ok {
			return true
		}
		logger.Tracef("[SocketIO] broadcasting %s to socket %v", event, key)
		client.Emit(event, payload)
		return true
	})
}

func decodeAny(input any, out any) error {
	raw, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// getFirstAny returns the first event argument, unwrapping a trailing
// ack callback when the client sent one.
func getFirstAny(data []any) any {
	if len(data) == 0 {
		return nil
	}
	if _, ok := data[len(data)-1].(func(...any)); ok {
		data = data[:len(data)-1]
	} else if _, ok := data[len(data)-1].(socket.Ack); ok {
		data = data[:len(data)-1]
	}
	if len(data) == 0 {
		return nil
	}
	return data[0]
}

// HandleSocketIO creates a Gin handler for Socket.IO
func (s *SocketIOServer) HandleSocketIO() gin.HandlerFunc {
	// Get the HTTP handler from Socket.IO server
	httpHandler := s.server.ServeHandler(nil)

	return func(c *gin.Context) {
		// Browser clients poll before upgrading, so answer preflight here.
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "false")

		if c.Request.Method == "OPTIONS" {
			c.Status(http.StatusOK)
			return
		}

		logger.Tracef("[SocketIO] request: %s %s", c.Request.Method, c.Request.URL.Path)

		// Serve Socket.IO
		httpHandler.ServeHTTP(c.Writer, c.Request)
	}
}

// Close stops the active run and shuts down the Socket.IO server.
func (s *SocketIOServer) Close() error {
	s.engine.Stop(context.Background())
	s.server.Close(nil)
	return nil
}
