package tcp

import (
	"log/slog"
	"net"
	"sync"

	"github.com/gameroomhq/tictactoe-server/internal/entity"
)

// ConnRegistry tracks live connections by ID and implements the outgoing
// half of the message gateway. The map is locked because reader goroutines
// register and unregister concurrently with sends from the dispatch loop.
type ConnRegistry struct {
	logger *slog.Logger

	mu    sync.RWMutex
	conns map[entity.ConnectionID]net.Conn
}

func NewConnRegistry(logger *slog.Logger) *ConnRegistry {
	return &ConnRegistry{
		logger: logger.With("component", "conns"),
		conns:  make(map[entity.ConnectionID]net.Conn),
	}
}

func (that *ConnRegistry) add(id entity.ConnectionID, conn net.Conn) {
	that.mu.Lock()
	that.conns[id] = conn
	that.mu.Unlock()
}

func (that *ConnRegistry) remove(id entity.ConnectionID) {
	that.mu.Lock()
	delete(that.conns, id)
	that.mu.Unlock()
}

// Send writes one newline-framed message to the connection. It is
// fire-and-forget: a write failure is logged and the reader goroutine will
// notice the broken connection on its own.
func (that *ConnRegistry) Send(id entity.ConnectionID, message string) {
	that.mu.RLock()
	conn, ok := that.conns[id]
	that.mu.RUnlock()

	if !ok {
		that.logger.Debug("send to unknown connection", "conn", id)
		return
	}

	if _, err := conn.Write([]byte(message + "\n")); err != nil {
		that.logger.Error("failed to write message", "conn", id, "error", err)
	}
}
