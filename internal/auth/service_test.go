package auth_test

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"testing"

	"student-manager/internal/auth"
	"student-manager/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService(t *testing.T) {
	database := testutil.NewDB(t, (*auth.User)(nil))
	service := auth.NewService(auth.NewRepository(database))
	ctx := context.Background()

	t.Run("RegisterAndLogin", func(t *testing.T) {
		testutil.CleanupTables(t, database, "users")

		require.NoError(t, service.Register(ctx, "alice", "secret", "secret"))

		user, err := service.Login(ctx, "alice", "secret")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("StoredPasswordIsDigest", func(t *testing.T) {
		testutil.CleanupTables(t, database, "users")

		require.NoError(t, service.Register(ctx, "alice", "secret", "secret"))

		stored := new(auth.User)
		require.NoError(t, database.NewSelect().Model(stored).Where("username = ?", "alice").Scan(ctx))

		sum := md5.Sum([]byte("secret"))
		assert.Equal(t, hex.EncodeToString(sum[:]), stored.Password)
	})

	t.Run("LoginWrongPassword", func(t *testing.T) {
		testutil.CleanupTables(t, database, "users")

		require.NoError(t, service.Register(ctx, "alice", "secret", "secret"))

		_, err := service.Login(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, auth.ErrWrongPassword)
	})

	t.Run("LoginUnknownUser", func(t *testing.T) {
		testutil.CleanupTables(t, database, "users")

		_, err := service.Login(ctx, "nobody", "secret")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})

	t.Run("LoginEmptyCredentials", func(t *testing.T) {
		_, err := service.Login(ctx, "   ", "secret")
		assert.ErrorIs(t, err, auth.ErrEmptyCredentials)

		_, err = service.Login(ctx, "alice", "")
		assert.ErrorIs(t, err, auth.ErrEmptyCredentials)
	})

	t.Run("RegisterPasswordMismatch", func(t *testing.T) {
		err := service.Register(ctx, "bob", "secret", "other")
		assert.ErrorIs(t, err, auth.ErrPasswordMismatch)
	})

	t.Run("RegisterEmptyCredentials", func(t *testing.T) {
		assert.ErrorIs(t, service.Register(ctx, "", "secret", "secret"), auth.ErrEmptyCredentials)
		assert.ErrorIs(t, service.Register(ctx, "bob", "", ""), auth.ErrEmptyCredentials)
	})

	t.Run("RegisterDuplicateUsername", func(t *testing.T) {
		testutil.CleanupTables(t, database, "users")

		require.NoError(t, service.Register(ctx, "alice", "secret", "secret"))
		assert.Error(t, service.Register(ctx, "alice", "secret", "secret"))
	})
}

func TestAccessToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-for-testing")

	token, err := auth.GenerateAccessToken("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	_, err = auth.ValidateAccessToken(token + "tampered")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = auth.ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
