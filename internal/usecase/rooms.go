package usecase

import (
	"log/slog"

	"github.com/gameroomhq/tictactoe-server/internal/entity"
	"github.com/gameroomhq/tictactoe-server/internal/protocol"
)

// Messenger is the outgoing half of the message gateway. Sends are
// fire-and-forget: delivery failures are the transport's problem.
type Messenger interface {
	Send(conn entity.ConnectionID, message string)
}

// Room is a named group of connections sharing one game. Members keeps join
// order: the first two entries are the players, everyone after is a
// spectator. A room with zero members does not exist.
type Room struct {
	Name    string
	Members []entity.ConnectionID
	Game    *entity.Game
}

// RoomManager owns the room-name -> room mapping and the game lifecycle
// inside each room. It is an explicitly constructed registry, mutated only
// from the single dispatch goroutine.
type RoomManager struct {
	logger    *slog.Logger
	sessions  *SessionDirectory
	messenger Messenger

	rooms map[string]*Room
}

func NewRoomManager(logger *slog.Logger, sessions *SessionDirectory, messenger Messenger) *RoomManager {
	return &RoomManager{
		logger:    logger.With("component", "rooms"),
		sessions:  sessions,
		messenger: messenger,

		rooms: make(map[string]*Room),
	}
}

// CreateRoom creates a room with the caller as its only member.
func (that *RoomManager) CreateRoom(name string, conn entity.ConnectionID) {
	if _, ok := that.rooms[name]; ok {
		that.messenger.Send(conn, protocol.RoomAlreadyExists(name))
		return
	}

	that.rooms[name] = &Room{
		Name:    name,
		Members: []entity.ConnectionID{conn},
	}

	that.messenger.Send(conn, protocol.RoomCreated(name))
	that.logger.Info("room created", "room", name, "conn", conn)
}

// JoinRoom adds the caller to the room: as the second player (which starts
// the game) while a seat is free, as a spectator otherwise. A new spectator
// immediately gets the current board.
func (that *RoomManager) JoinRoom(name string, conn entity.ConnectionID) {
	room, ok := that.rooms[name]
	if !ok {
		that.messenger.Send(conn, protocol.RoomDoesNotExist(name))
		return
	}

	room.Members = append(room.Members, conn)

	if len(room.Members) <= 2 {
		that.messenger.Send(conn, protocol.JoinedRoom(name))

		if len(room.Members) == 2 {
			that.startGame(room)
		}

		return
	}

	that.messenger.Send(conn, protocol.SpectatorAssigned(name))

	if room.Game != nil {
		player1, player2 := that.playerNames(room)
		that.messenger.Send(conn, protocol.BoardState(room.Game.BoardState(), player1, player2))
	}
}

// CheckRoom answers an existence probe without touching the room.
func (that *RoomManager) CheckRoom(name string, conn entity.ConnectionID) {
	if _, ok := that.rooms[name]; ok {
		that.messenger.Send(conn, protocol.RoomExists(name))
		return
	}

	that.messenger.Send(conn, protocol.RoomDoesNotExist(name))
}

// startGame runs once per room, on the second player joining: fresh game,
// display roles for the two players, start notifications (the true flag goes
// to the first mover only) and the initial board broadcast.
func (that *RoomManager) startGame(room *Room) {
	room.Game = entity.NewGame()

	that.sessions.AssignRole(room.Members[0], entity.RolePlayer1)
	that.sessions.AssignRole(room.Members[1], entity.RolePlayer2)

	for i, member := range room.Members {
		that.messenger.Send(member, protocol.GameStarted(room.Name, i == 0))
	}

	that.logger.Info("game started", "room", room.Name)
	that.BroadcastBoardState(room.Name)
}

// LeaveRoom removes the connection from the room, tells everyone left, and
// tears the room down when it empties. A miss on either the room or the
// membership is a no-op.
func (that *RoomManager) LeaveRoom(name string, conn entity.ConnectionID) {
	room, ok := that.rooms[name]
	if !ok {
		return
	}

	index := -1
	for i, member := range room.Members {
		if member == conn {
			index = i
			break
		}
	}

	if index < 0 {
		return
	}

	room.Members = append(room.Members[:index], room.Members[index+1:]...)
	that.sessions.AssignRole(conn, "")

	username := ""
	if identity, found := that.sessions.LookupIdentity(conn); found {
		username = identity.Username
	}

	for _, member := range room.Members {
		that.messenger.Send(member, protocol.PlayerLeft(username))
	}

	that.logger.Info("player left room", "room", name, "username", username)

	if len(room.Members) == 0 {
		that.destroyRoom(room)
	}
}

// HandleDisconnect routes a dropped connection through the normal leave-room
// path, then drops its identity. The linear scan mirrors there being no
// reverse index from connection to room.
func (that *RoomManager) HandleDisconnect(conn entity.ConnectionID) {
	if name, ok := that.FindRoom(conn); ok {
		that.LeaveRoom(name, conn)
	}

	that.sessions.Forget(conn)
}

// FindRoom returns the name of the room currently containing the connection.
func (that *RoomManager) FindRoom(conn entity.ConnectionID) (string, bool) {
	for name, room := range that.rooms {
		for _, member := range room.Members {
			if member == conn {
				return name, true
			}
		}
	}

	return "", false
}

// RelayChat forwards a chat line to every other member of the sender's room.
// A sender without a room is silently ignored.
func (that *RoomManager) RelayChat(conn entity.ConnectionID, text string) {
	name, ok := that.FindRoom(conn)
	if !ok {
		return
	}

	for _, member := range that.rooms[name].Members {
		if member == conn {
			continue
		}

		that.messenger.Send(member, protocol.OpponentMessage(text))
	}
}

// BroadcastBoardState pushes the board and both player usernames to every
// room member. The room may have been torn down between the triggering event
// and this call, hence the guard.
func (that *RoomManager) BroadcastBoardState(name string) {
	room, ok := that.rooms[name]
	if !ok || room.Game == nil {
		return
	}

	player1, player2 := that.playerNames(room)
	message := protocol.BoardState(room.Game.BoardState(), player1, player2)

	for _, member := range room.Members {
		that.messenger.Send(member, message)
	}
}

// MakeMove validates and applies a move in the named room: turn ownership
// first, then the engine's structural checks. On success the updated board
// goes to the whole room, turn prompts go to the two players only, and a
// concluded game ends the room.
func (that *RoomManager) MakeMove(name string, conn entity.ConnectionID, position int) {
	room, ok := that.rooms[name]
	if !ok || room.Game == nil {
		that.messenger.Send(conn, protocol.RespGameNotInitialized)
		return
	}

	identity, found := that.sessions.LookupIdentity(conn)
	if !found || !isTurnOf(room.Game.Turn, identity.Role) {
		that.messenger.Send(conn, protocol.RespNotYourTurn)
		return
	}

	if !room.Game.MakeMove(position) {
		that.messenger.Send(conn, protocol.RespInvalidMove)
		return
	}

	that.BroadcastBoardState(name)

	that.messenger.Send(conn, protocol.RespOpponentTurn)
	if other := that.otherPlayer(room, conn); other != conn {
		that.messenger.Send(other, protocol.RespYourTurn)
	}

	if winner := room.Game.GetWinner(); winner != entity.EmptyCell {
		that.EndGame(name, winner)
		return
	}

	if room.Game.IsBoardFull() {
		that.EndGame(name, entity.EmptyCell)
	}
}

// EndGame announces the result to the whole room and unconditionally
// destroys the room and its game; a rematch needs a fresh CreateRoom.
func (that *RoomManager) EndGame(name, winner string) {
	room, ok := that.rooms[name]
	if !ok {
		return
	}

	player1, player2 := that.playerNames(room)

	var message string
	switch winner {
	case entity.PlayerX:
		message = player1 + " (X) wins!"
	case entity.PlayerO:
		message = player2 + " (O) wins!"
	default:
		message = "It's a draw!"
	}

	for _, member := range room.Members {
		that.messenger.Send(member, protocol.GameOver(message))
	}

	that.logger.Info("game over", "room", name, "result", message)
	that.destroyRoom(room)
}

func (that *RoomManager) destroyRoom(room *Room) {
	for _, member := range room.Members {
		that.sessions.AssignRole(member, "")
	}

	room.Game = nil
	delete(that.rooms, room.Name)
	that.logger.Info("room destroyed", "room", room.Name)
}

// playerNames resolves the real usernames of the two seated players.
func (that *RoomManager) playerNames(room *Room) (string, string) {
	player1 := entity.RolePlayer1
	player2 := entity.RolePlayer2

	if len(room.Members) > 0 {
		if identity, ok := that.sessions.LookupIdentity(room.Members[0]); ok {
			player1 = identity.Username
		}
	}

	if len(room.Members) > 1 {
		if identity, ok := that.sessions.LookupIdentity(room.Members[1]); ok {
			player2 = identity.Username
		}
	}

	return player1, player2
}

// otherPlayer picks the seated player that is not the sender. Spectators are
// never candidates, so they never receive turn prompts.
func (that *RoomManager) otherPlayer(room *Room, conn entity.ConnectionID) entity.ConnectionID {
	if len(room.Members) > 1 && room.Members[0] == conn {
		return room.Members[1]
	}

	return room.Members[0]
}

func isTurnOf(turn, role string) bool {
	return (turn == entity.PlayerX && role == entity.RolePlayer1) ||
		(turn == entity.PlayerO && role == entity.RolePlayer2)
}
