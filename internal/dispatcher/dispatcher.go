// Package dispatcher routes parsed protocol commands to the session
// directory and the room manager. Dispatch is stateless per message; whether
// a connection is authenticated or in a room is derived from those two
// registries, never stored here.
package dispatcher

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/gameroomhq/tictactoe-server/internal/apperror"
	"github.com/gameroomhq/tictactoe-server/internal/entity"
	"github.com/gameroomhq/tictactoe-server/internal/protocol"
)

type sessionDirectory interface {
	Authenticate(ctx context.Context, conn entity.ConnectionID, username, password string) error
	Register(ctx context.Context, conn entity.ConnectionID, username, password string) error
	Authenticated(conn entity.ConnectionID) bool
}

type roomManager interface {
	CreateRoom(name string, conn entity.ConnectionID)
	JoinRoom(name string, conn entity.ConnectionID)
	CheckRoom(name string, conn entity.ConnectionID)
	LeaveRoom(name string, conn entity.ConnectionID)
	RelayChat(conn entity.ConnectionID, text string)
	MakeMove(name string, conn entity.ConnectionID, position int)
	HandleDisconnect(conn entity.ConnectionID)
}

type messenger interface {
	Send(conn entity.ConnectionID, message string)
}

type handlerFunc func(ctx context.Context, conn entity.ConnectionID, args []string)

type Dispatcher struct {
	logger    *slog.Logger
	sessions  sessionDirectory
	rooms     roomManager
	messenger messenger

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, sessions sessionDirectory, rooms roomManager, messenger messenger) *Dispatcher {
	dispatcher := &Dispatcher{
		logger:    logger.With("component", "dispatcher"),
		sessions:  sessions,
		rooms:     rooms,
		messenger: messenger,

		handlers: make(map[string]handlerFunc),
	}

	dispatcher.handlers[protocol.CmdLogin] = dispatcher.handleLogin
	dispatcher.handlers[protocol.CmdCreateAccount] = dispatcher.handleCreateAccount
	dispatcher.handlers[protocol.CmdCreateRoom] = dispatcher.handleCreateRoom
	dispatcher.handlers[protocol.CmdJoinRoom] = dispatcher.handleJoinRoom
	dispatcher.handlers[protocol.CmdCheckRoom] = dispatcher.handleCheckRoom
	dispatcher.handlers[protocol.CmdLeaveRoom] = dispatcher.handleLeaveRoom
	dispatcher.handlers[protocol.CmdPlayerMessage] = dispatcher.handlePlayerMessage
	dispatcher.handlers[protocol.CmdPlayerMove] = dispatcher.handlePlayerMove

	return dispatcher
}

// Dispatch parses one inbound line and runs its handler. Malformed lines are
// answered, not swallowed, and everything beyond Login/CreateAccount
// requires an authenticated connection.
func (that *Dispatcher) Dispatch(ctx context.Context, conn entity.ConnectionID, line string) {
	command, err := protocol.Parse(line)
	if err != nil {
		that.logger.Debug("malformed command", "conn", conn, "error", err)
		that.messenger.Send(conn, protocol.RespMalformedCommand)
		return
	}

	if requiresAuth(command.Name) && !that.sessions.Authenticated(conn) {
		that.messenger.Send(conn, protocol.RespNotAuthenticated)
		return
	}

	that.handlers[command.Name](ctx, conn, command.Args)
}

// Disconnect handles a connection dropping without a LeaveRoom: the room
// manager turns it into a synthetic leave and forgets the identity.
func (that *Dispatcher) Disconnect(conn entity.ConnectionID) {
	that.logger.Info("connection closed", "conn", conn)
	that.rooms.HandleDisconnect(conn)
}

func requiresAuth(command string) bool {
	return command != protocol.CmdLogin && command != protocol.CmdCreateAccount
}

func (that *Dispatcher) handleLogin(ctx context.Context, conn entity.ConnectionID, args []string) {
	err := that.sessions.Authenticate(ctx, conn, args[0], args[1])

	switch {
	case errors.Is(err, apperror.ErrInvalidCredentials):
		that.messenger.Send(conn, protocol.LoginFailed(protocol.ReasonBadCredentials))
	case err != nil:
		that.logger.Error("login failed", "error", err)
		that.messenger.Send(conn, protocol.LoginFailed(protocol.ReasonInternal))
	default:
		that.messenger.Send(conn, protocol.RespLoginSuccess)
	}
}

func (that *Dispatcher) handleCreateAccount(ctx context.Context, conn entity.ConnectionID, args []string) {
	err := that.sessions.Register(ctx, conn, args[0], args[1])

	switch {
	case errors.Is(err, apperror.ErrUsernameTaken):
		that.messenger.Send(conn, protocol.AccountCreationFailed(protocol.ReasonUsernameTaken))
	case err != nil:
		that.logger.Error("account creation failed", "error", err)
		that.messenger.Send(conn, protocol.AccountCreationFailed(protocol.ReasonInternal))
	default:
		that.messenger.Send(conn, protocol.RespAccountCreated)
	}
}

func (that *Dispatcher) handleCreateRoom(_ context.Context, conn entity.ConnectionID, args []string) {
	that.rooms.CreateRoom(args[0], conn)
}

func (that *Dispatcher) handleJoinRoom(_ context.Context, conn entity.ConnectionID, args []string) {
	that.rooms.JoinRoom(args[0], conn)
}

func (that *Dispatcher) handleCheckRoom(_ context.Context, conn entity.ConnectionID, args []string) {
	that.rooms.CheckRoom(args[0], conn)
}

func (that *Dispatcher) handleLeaveRoom(_ context.Context, conn entity.ConnectionID, args []string) {
	that.rooms.LeaveRoom(args[0], conn)
}

func (that *Dispatcher) handlePlayerMessage(_ context.Context, conn entity.ConnectionID, args []string) {
	that.rooms.RelayChat(conn, args[0])
}

func (that *Dispatcher) handlePlayerMove(_ context.Context, conn entity.ConnectionID, args []string) {
	position, err := strconv.Atoi(args[1])
	if err != nil {
		that.messenger.Send(conn, protocol.RespMalformedCommand)
		return
	}

	that.rooms.MakeMove(args[0], conn, position)
}
