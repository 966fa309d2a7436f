package websocket

import (
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/logger"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/wire"
	socket "github.com/zishang520/socket.io/servers/socket/v3"
)

func (s *SocketIOServer) handleConnection(client *socket.Socket) {
	socketID := string(client.Id())

	logger.Infof("[SocketIO] client connected (socket ID: %s)", socketID)

	// Listening requires no auth; control routes carry their own.
	s.sockets.Store(socketID, client)

	client.Emit(wire.EventConnected, wire.MessagePayload{
		Message: "Connected to navigation system",
	})

	// Late joiners see the current state right away instead of waiting
	// for the next tick.
	client.Emit(wire.EventNavigationUpdate, s.store.Snapshot().Wire())

	s.registerClientHandlers(client, socketID)
}
