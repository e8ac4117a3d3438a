package entity

// ConnectionID is an opaque handle for a transport endpoint. The transport
// layer creates and destroys them; everything else only compares them.
type ConnectionID uint64

const (
	RolePlayer1 = "Player1"
	RolePlayer2 = "Player2"
)

// Identity is the authenticated state of a connection. Username is what the
// user logged in with; Role is the display role assigned once a game starts.
// They are separate fields so the real username is always recoverable for
// end-game messages.
type Identity struct {
	Username string
	Role     string
}

// DisplayName returns the in-game label for the identity: the display role
// while a game is running, the username otherwise.
func (that *Identity) DisplayName() string {
	if that.Role != "" {
		return that.Role
	}
	return that.Username
}
