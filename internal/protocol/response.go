package protocol

import (
	"strconv"
	"strings"

	"github.com/gameroomhq/tictactoe-server/internal/entity"
)

// Fixed single-word responses.
const (
	RespLoginSuccess   = "LoginSuccess"
	RespAccountCreated = "AccountCreated"
	RespOpponentTurn   = "OpponentTurn"
	RespYourTurn       = "YourTurn"

	RespInvalidMove = "Invalid move. Try again."
	RespNotYourTurn = "It's not your turn!"

	RespGameNotInitialized = "Error: Game not initialized"
	RespMalformedCommand   = "Error: Malformed command"
	RespNotAuthenticated   = "Error: Not authenticated"
)

// Canned failure reasons kept byte-identical to what clients already parse.
const (
	ReasonBadCredentials = "Invalid username or password."
	ReasonUsernameTaken  = "Username already exists."
	ReasonInternal       = "Internal error."
)

// emptyCellWire is how an unclaimed cell is rendered on the wire.
const emptyCellWire = "None"

func LoginFailed(reason string) string {
	return "LoginFailed: " + reason
}

func AccountCreationFailed(reason string) string {
	return "AccountCreationFailed: " + reason
}

func RoomCreated(name string) string {
	return "RoomCreated:" + name
}

func RoomAlreadyExists(name string) string {
	return "RoomAlreadyExists:" + name
}

func RoomExists(name string) string {
	return "RoomExists:" + name
}

func RoomDoesNotExist(name string) string {
	return "RoomDoesNotExist:" + name
}

func JoinedRoom(name string) string {
	return "JoinedRoom:" + name
}

func SpectatorAssigned(name string) string {
	return "SpectatorAssigned:" + name
}

// GameStarted tells a room member the game began; isFirstPlayer is true only
// for the member who moves first.
func GameStarted(room string, isFirstPlayer bool) string {
	return "GameStarted:" + room + ":" + strconv.FormatBool(isFirstPlayer)
}

// BoardState renders the nine cells comma-joined followed by both player
// usernames.
func BoardState(board [9]string, player1, player2 string) string {
	cells := make([]string, 0, len(board))
	for _, cell := range board {
		if cell == entity.EmptyCell {
			cells = append(cells, emptyCellWire)
			continue
		}
		cells = append(cells, cell)
	}

	return "BoardState:" + strings.Join(cells, ",") + ":" + player1 + ":" + player2
}

func PlayerLeft(username string) string {
	return "PlayerLeft:" + username
}

func OpponentMessage(text string) string {
	return "OpponentMessage:" + text
}

func GameOver(message string) string {
	return "GameOver:" + message
}
