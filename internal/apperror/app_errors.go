package apperror

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrNotAuthenticated   = errors.New("connection is not authenticated")

	ErrRoomAlreadyExists  = errors.New("room already exists")
	ErrRoomNotFound       = errors.New("room does not exist")
	ErrGameNotInitialized = errors.New("game not initialized")

	ErrNotYourTurn = errors.New("it's not your turn")
	ErrInvalidMove = errors.New("invalid move")
)
