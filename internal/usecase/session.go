package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gameroomhq/tictactoe-server/internal/apperror"
	"github.com/gameroomhq/tictactoe-server/internal/entity"
)

type credentialRepo interface {
	Verify(ctx context.Context, username, password string) (bool, error)
	Exists(ctx context.Context, username string) (bool, error)
	Store(ctx context.Context, username, password string) error
}

// SessionDirectory owns the connection -> identity mapping. All mutation
// happens on the single dispatch goroutine, so the map needs no lock.
type SessionDirectory struct {
	logger *slog.Logger
	creds  credentialRepo

	identities map[entity.ConnectionID]*entity.Identity
}

func NewSessionDirectory(logger *slog.Logger, creds credentialRepo) *SessionDirectory {
	return &SessionDirectory{
		logger: logger.With("component", "sessions"),
		creds:  creds,

		identities: make(map[entity.ConnectionID]*entity.Identity),
	}
}

// Authenticate checks the credentials against the store and, on success,
// binds the identity to the connection.
func (that *SessionDirectory) Authenticate(ctx context.Context, conn entity.ConnectionID, username, password string) error {
	ok, err := that.creds.Verify(ctx, username, password)
	if err != nil {
		return fmt.Errorf("failed to verify credentials: %w", err)
	}

	if !ok {
		return apperror.ErrInvalidCredentials
	}

	that.identities[conn] = &entity.Identity{Username: username}
	that.logger.Info("user logged in", "username", username, "conn", conn)

	return nil
}

// Register creates the account and logs the connection in as a side effect.
func (that *SessionDirectory) Register(ctx context.Context, conn entity.ConnectionID, username, password string) error {
	exists, err := that.creds.Exists(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}

	if exists {
		return apperror.ErrUsernameTaken
	}

	if err = that.creds.Store(ctx, username, password); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	that.identities[conn] = &entity.Identity{Username: username}
	that.logger.Info("account created", "username", username, "conn", conn)

	return nil
}

func (that *SessionDirectory) LookupIdentity(conn entity.ConnectionID) (*entity.Identity, bool) {
	identity, ok := that.identities[conn]
	return identity, ok
}

func (that *SessionDirectory) Authenticated(conn entity.ConnectionID) bool {
	_, ok := that.identities[conn]
	return ok
}

// AssignRole sets the display role on the connection's identity. The
// username stays untouched so end-game messages can still name the player.
func (that *SessionDirectory) AssignRole(conn entity.ConnectionID, role string) {
	if identity, ok := that.identities[conn]; ok {
		identity.Role = role
	}
}

// Forget drops the identity binding. Called when the connection goes away.
func (that *SessionDirectory) Forget(conn entity.ConnectionID) {
	delete(that.identities, conn)
}
