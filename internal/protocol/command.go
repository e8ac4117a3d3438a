// Package protocol implements the colon-delimited text wire protocol spoken
// by game clients: parsing of inbound command lines and formatting of
// outbound response lines.
package protocol

import (
	"errors"
	"fmt"
	"strings"
)

const (
	CmdLogin         = "Login"
	CmdCreateAccount = "CreateAccount"
	CmdCreateRoom    = "CreateRoom"
	CmdJoinRoom      = "JoinRoom"
	CmdCheckRoom     = "CheckRoom"
	CmdLeaveRoom     = "LeaveRoom"
	CmdPlayerMessage = "PlayerMessage"
	CmdPlayerMove    = "PlayerMove"
)

var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrWrongFieldCount = errors.New("wrong field count")
)

// commandArity is the exact number of fields each command carries after its
// name. Commands marked rawTail keep everything after the first colon as a
// single field, so chat text may itself contain colons.
var commandArity = map[string]int{
	CmdLogin:         2,
	CmdCreateAccount: 2,
	CmdCreateRoom:    1,
	CmdJoinRoom:      1,
	CmdCheckRoom:     1,
	CmdLeaveRoom:     1,
	CmdPlayerMessage: 1,
	CmdPlayerMove:    2,
}

var rawTail = map[string]bool{
	CmdPlayerMessage: true,
}

// Command is one parsed client request.
type Command struct {
	Name string
	Args []string
}

// Parse splits a raw line into a Command, validating the command name and
// field count. The returned error wraps ErrUnknownCommand or
// ErrWrongFieldCount for malformed input.
func Parse(line string) (*Command, error) {
	name, rest, found := strings.Cut(line, ":")

	arity, ok := commandArity[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}

	if !found {
		return nil, fmt.Errorf("%w: %s expects %d fields, got 0", ErrWrongFieldCount, name, arity)
	}

	if rawTail[name] {
		return &Command{Name: name, Args: []string{rest}}, nil
	}

	args := strings.Split(rest, ":")
	if len(args) != arity {
		return nil, fmt.Errorf("%w: %s expects %d fields, got %d", ErrWrongFieldCount, name, arity, len(args))
	}

	return &Command{Name: name, Args: args}, nil
}
