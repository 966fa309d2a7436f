package websocket

import (
	"context"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/navigation"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/logger"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/wire"
	socket "github.com/zishang520/socket.io/servers/socket/v3"
)

func (s *SocketIOServer) registerClientHandlers(client *socket.Socket, socketID string) {
	// start_navigation - begin a run. The optional payload picks the
	// mode; without one an attached camera wins over the simulator.
	client.On(wire.EventStartNavigation, func(data ...any) {
		var payload wire.StartNavigationPayload
		if raw := getFirstAny(data); raw != nil {
			if err := decodeAny(raw, &payload); err != nil {
				logger.Warnf("[SocketIO] bad start_navigation payload (socket %s): %v", socketID, err)
				client.Emit(wire.EventError, wire.ErrorPayload{Message: "Invalid start_navigation payload"})
				return
			}
		}

		mode := navigation.ResolveMode(payload.Mode, s.cameras.Attached())
		if _, err := s.engine.Start(context.Background(), mode); err != nil {
			logger.Warnf("[SocketIO] start_navigation failed (socket %s): %v", socketID, err)
			client.Emit(wire.EventError, wire.ErrorPayload{Message: err.Error()})
			return
		}

		client.Emit(wire.EventNavigationStarted, wire.MessagePayload{
			Message: "Navigation system started",
		})
		s.Broadcast(wire.EventNavigationUpdate, s.store.Snapshot().Wire())
	})

	// stop_navigation - end the run. Stopping an idle system still
	// answers, so the stop button never errors.
	client.On(wire.EventStopNavigation, func(data ...any) {
		state := s.engine.Stop(context.Background())

		client.Emit(wire.EventNavigationStopped, wire.MessagePayload{
			Message: "Navigation system stopped",
		})
		s.Broadcast(wire.EventNavigationUpdate, state.Wire())
	})

	// Disconnection handler
	client.On("disconnect", func(data ...any) {
		reason := ""
		if len(data) > 0 {
			if r, ok := data[0].(string); ok {
				reason = r
			}
		}
		logger.Infof("[SocketIO] client disconnected (socket %s, reason: %s)", socketID, reason)

		s.sockets.Delete(socketID)
	})
}
