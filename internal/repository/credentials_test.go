package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gameroomhq/tictactoe-server/testing/suite"
)

func TestCredentialRepository_Store(t *testing.T) {
	ctx, st := suite.New(t)

	credRepo := NewCredentialRepository(st.Storage)

	// When: storing credentials for a new user
	err := credRepo.Store(ctx, "alice", "hunter2")

	// Then: no error should be returned and the user exists
	require.NoError(t, err)

	exists, err := credRepo.Exists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCredentialRepository_Verify(t *testing.T) {
	t.Run("Verify_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		credRepo := NewCredentialRepository(st.Storage)

		// Given: stored credentials
		require.NoError(t, credRepo.Store(ctx, "alice", "hunter2"))

		// When: verifying with the right password
		ok, err := credRepo.Verify(ctx, "alice", "hunter2")

		// Then: verification succeeds
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Verify_WrongPassword", func(t *testing.T) {
		ctx, st := suite.New(t)

		credRepo := NewCredentialRepository(st.Storage)

		require.NoError(t, credRepo.Store(ctx, "alice", "hunter2"))

		// When: verifying with the wrong password
		ok, err := credRepo.Verify(ctx, "alice", "wrong")

		// Then: verification fails without an error
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Verify_UnknownUser", func(t *testing.T) {
		ctx, st := suite.New(t)

		credRepo := NewCredentialRepository(st.Storage)

		// When: verifying a user that was never stored
		ok, err := credRepo.Verify(ctx, "ghost", "pw")

		// Then: verification fails without an error
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCredentialRepository_Exists(t *testing.T) {
	ctx, st := suite.New(t)

	credRepo := NewCredentialRepository(st.Storage)

	// Given: one stored user
	require.NoError(t, credRepo.Store(ctx, "bob", "pw"))

	exists, err := credRepo.Exists(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = credRepo.Exists(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCredentialRepository_CacheServesRepeatLookups(t *testing.T) {
	ctx, st := suite.New(t)

	credRepo := NewCredentialRepository(st.Storage)

	// Given: stored credentials read once (which warms the cache)
	require.NoError(t, credRepo.Store(ctx, "alice", "hunter2"))
	ok, err := credRepo.Verify(ctx, "alice", "hunter2")
	require.NoError(t, err)
	require.True(t, ok)

	// When: the backing key disappears from redis
	require.NoError(t, st.Storage.Del(ctx, "user:alice").Err())

	// Then: the cached entry still answers
	ok, err = credRepo.Verify(ctx, "alice", "hunter2")
	require.NoError(t, err)
	assert.True(t, ok)
}
