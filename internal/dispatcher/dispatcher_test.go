package dispatcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gameroomhq/tictactoe-server/internal/apperror"
	"github.com/gameroomhq/tictactoe-server/internal/entity"
)

type fakeSessions struct {
	authenticated   map[entity.ConnectionID]bool
	authenticateErr error
	registerErr     error
	calls           []string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{authenticated: make(map[entity.ConnectionID]bool)}
}

func (that *fakeSessions) Authenticate(_ context.Context, conn entity.ConnectionID, username, password string) error {
	that.calls = append(that.calls, fmt.Sprintf("Authenticate(%d,%s,%s)", conn, username, password))
	if that.authenticateErr != nil {
		return that.authenticateErr
	}
	that.authenticated[conn] = true
	return nil
}

func (that *fakeSessions) Register(_ context.Context, conn entity.ConnectionID, username, password string) error {
	that.calls = append(that.calls, fmt.Sprintf("Register(%d,%s,%s)", conn, username, password))
	if that.registerErr != nil {
		return that.registerErr
	}
	that.authenticated[conn] = true
	return nil
}

func (that *fakeSessions) Authenticated(conn entity.ConnectionID) bool {
	return that.authenticated[conn]
}

type fakeRooms struct {
	calls []string
}

func (that *fakeRooms) CreateRoom(name string, conn entity.ConnectionID) {
	that.calls = append(that.calls, fmt.Sprintf("CreateRoom(%s,%d)", name, conn))
}

func (that *fakeRooms) JoinRoom(name string, conn entity.ConnectionID) {
	that.calls = append(that.calls, fmt.Sprintf("JoinRoom(%s,%d)", name, conn))
}

func (that *fakeRooms) CheckRoom(name string, conn entity.ConnectionID) {
	that.calls = append(that.calls, fmt.Sprintf("CheckRoom(%s,%d)", name, conn))
}

func (that *fakeRooms) LeaveRoom(name string, conn entity.ConnectionID) {
	that.calls = append(that.calls, fmt.Sprintf("LeaveRoom(%s,%d)", name, conn))
}

func (that *fakeRooms) RelayChat(conn entity.ConnectionID, text string) {
	that.calls = append(that.calls, fmt.Sprintf("RelayChat(%d,%s)", conn, text))
}

func (that *fakeRooms) MakeMove(name string, conn entity.ConnectionID, position int) {
	that.calls = append(that.calls, fmt.Sprintf("MakeMove(%s,%d,%d)", name, conn, position))
}

func (that *fakeRooms) HandleDisconnect(conn entity.ConnectionID) {
	that.calls = append(that.calls, fmt.Sprintf("HandleDisconnect(%d)", conn))
}

type fakeMessenger struct {
	sent map[entity.ConnectionID][]string
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{sent: make(map[entity.ConnectionID][]string)}
}

func (that *fakeMessenger) Send(conn entity.ConnectionID, message string) {
	that.sent[conn] = append(that.sent[conn], message)
}

func newTestDispatcher() (*Dispatcher, *fakeSessions, *fakeRooms, *fakeMessenger) {
	sessions := newFakeSessions()
	rooms := &fakeRooms{}
	messenger := newFakeMessenger()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(logger, sessions, rooms, messenger), sessions, rooms, messenger
}

func TestDispatcher_Dispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Routes login and reports success", func(t *testing.T) {
		dispatcher, sessions, _, messenger := newTestDispatcher()

		// When: a login line arrives
		dispatcher.Dispatch(ctx, 1, "Login:alice:pw")

		// Then: the session directory saw it and the client got the ack
		assert.Equal(t, []string{"Authenticate(1,alice,pw)"}, sessions.calls)
		assert.Equal(t, []string{"LoginSuccess"}, messenger.sent[1])
	})

	t.Run("Reports bad credentials with the canned reason", func(t *testing.T) {
		dispatcher, sessions, _, messenger := newTestDispatcher()
		sessions.authenticateErr = apperror.ErrInvalidCredentials

		dispatcher.Dispatch(ctx, 1, "Login:alice:wrong")

		assert.Equal(t, []string{"LoginFailed: Invalid username or password."}, messenger.sent[1])
	})

	t.Run("Account creation logs the connection in", func(t *testing.T) {
		dispatcher, sessions, rooms, messenger := newTestDispatcher()

		// When: a fresh connection registers and immediately creates a room
		dispatcher.Dispatch(ctx, 2, "CreateAccount:bob:pw")
		dispatcher.Dispatch(ctx, 2, "CreateRoom:r1")

		// Then: no auth gate in between
		assert.Equal(t, []string{"Register(2,bob,pw)"}, sessions.calls)
		assert.Equal(t, []string{"AccountCreated"}, messenger.sent[2])
		assert.Equal(t, []string{"CreateRoom(r1,2)"}, rooms.calls)
	})

	t.Run("Duplicate username is reported", func(t *testing.T) {
		dispatcher, sessions, _, messenger := newTestDispatcher()
		sessions.registerErr = apperror.ErrUsernameTaken

		dispatcher.Dispatch(ctx, 1, "CreateAccount:bob:pw")

		assert.Equal(t, []string{"AccountCreationFailed: Username already exists."}, messenger.sent[1])
	})

	t.Run("Room commands are gated behind authentication", func(t *testing.T) {
		dispatcher, _, rooms, messenger := newTestDispatcher()

		// When: an unauthenticated connection tries room and game commands
		dispatcher.Dispatch(ctx, 5, "CreateRoom:r1")
		dispatcher.Dispatch(ctx, 5, "JoinRoom:r1")
		dispatcher.Dispatch(ctx, 5, "PlayerMove:r1:4")
		dispatcher.Dispatch(ctx, 5, "PlayerMessage:hi")

		// Then: nothing reaches the room manager
		assert.Empty(t, rooms.calls)
		assert.Equal(t, []string{
			"Error: Not authenticated",
			"Error: Not authenticated",
			"Error: Not authenticated",
			"Error: Not authenticated",
		}, messenger.sent[5])
	})

	t.Run("Routes room commands for an authenticated connection", func(t *testing.T) {
		dispatcher, sessions, rooms, _ := newTestDispatcher()
		sessions.authenticated[3] = true

		dispatcher.Dispatch(ctx, 3, "CreateRoom:r1")
		dispatcher.Dispatch(ctx, 3, "CheckRoom:r1")
		dispatcher.Dispatch(ctx, 3, "JoinRoom:r2")
		dispatcher.Dispatch(ctx, 3, "PlayerMessage:hello there")
		dispatcher.Dispatch(ctx, 3, "PlayerMove:r1:8")
		dispatcher.Dispatch(ctx, 3, "LeaveRoom:r1")

		assert.Equal(t, []string{
			"CreateRoom(r1,3)",
			"CheckRoom(r1,3)",
			"JoinRoom(r2,3)",
			"RelayChat(3,hello there)",
			"MakeMove(r1,3,8)",
			"LeaveRoom(r1,3)",
		}, rooms.calls)
	})

	t.Run("Malformed lines are answered, not swallowed", func(t *testing.T) {
		dispatcher, sessions, rooms, messenger := newTestDispatcher()
		sessions.authenticated[4] = true

		dispatcher.Dispatch(ctx, 4, "Bogus:stuff")
		dispatcher.Dispatch(ctx, 4, "Login:onlyuser")
		dispatcher.Dispatch(ctx, 4, "PlayerMove:r1:notanumber")

		assert.Empty(t, rooms.calls)
		assert.Equal(t, []string{
			"Error: Malformed command",
			"Error: Malformed command",
			"Error: Malformed command",
		}, messenger.sent[4])
	})

	t.Run("Disconnect is routed to the room manager", func(t *testing.T) {
		dispatcher, _, rooms, _ := newTestDispatcher()

		dispatcher.Disconnect(7)

		assert.Equal(t, []string{"HandleDisconnect(7)"}, rooms.calls)
	})
}
