package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

var ErrUserNotFound = errors.New("user not found")

const (
	credentialKeyPrefix = "user:"

	credentialCacheTTL     = 5 * time.Minute
	credentialCacheCleanup = 10 * time.Minute
)

// CredentialRepository is the persistent credential store behind login and
// account creation. Passwords are stored and compared verbatim: hashing would
// break compatibility with existing accounts, so the weakness is kept on
// purpose.
type CredentialRepository interface {
	Verify(ctx context.Context, username, password string) (bool, error)
	Exists(ctx context.Context, username string) (bool, error)
	Store(ctx context.Context, username, password string) error
}

type dbCredential struct {
	client *redis.Client
	cache  *gocache.Cache
}

func NewCredentialRepository(client *redis.Client) CredentialRepository {
	return &dbCredential{
		client: client,
		cache:  gocache.New(credentialCacheTTL, credentialCacheCleanup),
	}
}

func (that *dbCredential) Verify(ctx context.Context, username, password string) (bool, error) {
	stored, err := that.get(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to verify user: %w", err)
	}

	return stored == password, nil
}

func (that *dbCredential) Exists(ctx context.Context, username string) (bool, error) {
	_, err := that.get(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return true, nil
}

func (that *dbCredential) Store(ctx context.Context, username, password string) error {
	userKey := credentialKeyPrefix + username

	if err := that.client.Set(ctx, userKey, password, 0).Err(); err != nil {
		return fmt.Errorf("failed to set user: %w", err)
	}

	that.cache.Set(username, password, gocache.DefaultExpiration)

	return nil
}

// get is a read-through lookup: in-process cache first, redis on miss.
func (that *dbCredential) get(ctx context.Context, username string) (string, error) {
	if cached, ok := that.cache.Get(username); ok {
		if password, isString := cached.(string); isString {
			return password, nil
		}
	}

	userKey := credentialKeyPrefix + username

	response, err := that.client.Get(ctx, userKey).Result()

	if errors.Is(err, redis.Nil) {
		return "", ErrUserNotFound
	}

	if err != nil {
		return "", fmt.Errorf("failed to get user by name: %w", err)
	}

	that.cache.Set(username, response, gocache.DefaultExpiration)

	return response, nil
}
