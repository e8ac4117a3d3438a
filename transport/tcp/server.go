// Package tcp is the message gateway: a line-based TCP server that feeds
// every inbound event through one dispatch goroutine, so exactly one message
// is fully processed before the next is considered.
package tcp

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync/atomic"

	"github.com/gameroomhq/tictactoe-server/internal/entity"
)

const eventBacklog = 256

type dispatcher interface {
	Dispatch(ctx context.Context, conn entity.ConnectionID, line string)
	Disconnect(conn entity.ConnectionID)
}

type eventKind int

const (
	eventMessage eventKind = iota
	eventDisconnect
)

type event struct {
	kind eventKind
	conn entity.ConnectionID
	line string
}

type Server struct {
	logger     *slog.Logger
	registry   *ConnRegistry
	dispatcher dispatcher

	lastConnID atomic.Uint64
	events     chan event
}

func New(logger *slog.Logger, registry *ConnRegistry, dispatcher dispatcher) *Server {
	return &Server{
		logger:     logger.With("component", "tcp"),
		registry:   registry,
		dispatcher: dispatcher,

		events: make(chan event, eventBacklog),
	}
}

// Start - starts the game server and blocks until the context is canceled
// or the listener fails.
func (that *Server) Start(ctx context.Context, port string) error {
	var lc net.ListenConfig

	listener, err := lc.Listen(ctx, "tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to start listener: %w", err)
	}

	go that.dispatchLoop(ctx)

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, acceptErr := listener.Accept()
		if acceptErr != nil {
			if ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("failed to accept connection: %w", acceptErr)
		}

		id := entity.ConnectionID(that.lastConnID.Add(1))
		that.registry.add(id, conn)
		that.logger.Info("connection accepted", "conn", id, "remote", conn.RemoteAddr())

		go that.readLoop(id, conn)
	}
}

// dispatchLoop drains the event channel serially. All room and session state
// is mutated only from this goroutine.
func (that *Server) dispatchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-that.events:
			switch ev.kind {
			case eventMessage:
				that.dispatcher.Dispatch(ctx, ev.conn, ev.line)
			case eventDisconnect:
				that.dispatcher.Disconnect(ev.conn)
			}
		}
	}
}

// readLoop reads newline-framed messages off one connection and hands them
// to the dispatch loop. It owns the connection's teardown.
func (that *Server) readLoop(id entity.ConnectionID, conn net.Conn) {
	defer func() {
		that.registry.remove(id)
		conn.Close()
		that.events <- event{kind: eventDisconnect, conn: id}
	}()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		that.events <- event{kind: eventMessage, conn: id, line: line}
	}

	if err := scanner.Err(); err != nil {
		that.logger.Debug("read loop ended", "conn", id, "error", err)
	}
}
