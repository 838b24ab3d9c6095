package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse/internal/password"
	"pulse/internal/testdb"
)

func TestUserRegistry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := testdb.Start(t)
	registry := NewService(db)
	ctx := context.Background()

	t.Run("create stores a hashed password", func(t *testing.T) {
		created, err := registry.Create(ctx, NewUser{
			Username: "janedoe",
			Email:    "jane@example.com",
			Password: "validpassword",
		})
		require.NoError(t, err)

		assert.Equal(t, "janedoe", created.Username)
		assert.Equal(t, "jane@example.com", created.Email)
		assert.NotEqual(t, "validpassword", created.Password)

		match, err := password.Compare("validpassword", created.Password)
		require.NoError(t, err)
		assert.True(t, match)
	})

	t.Run("username uniqueness is case-insensitive", func(t *testing.T) {
		_, err := registry.Create(ctx, NewUser{
			Username: "JaneDoe",
			Email:    "other@example.com",
			Password: "validpassword",
		})
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("email uniqueness is case-insensitive", func(t *testing.T) {
		_, err := registry.Create(ctx, NewUser{
			Username: "someoneelse",
			Email:    "Jane@Example.com",
			Password: "validpassword",
		})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("find by username ignores case", func(t *testing.T) {
		found, err := registry.FindOneByUsername(ctx, "JANEDOE")
		require.NoError(t, err)
		assert.Equal(t, "janedoe", found.Username)

		_, err = registry.FindOneByUsername(ctx, "ghost")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("find by email ignores case", func(t *testing.T) {
		found, err := registry.FindOneByEmail(ctx, "JANE@example.com")
		require.NoError(t, err)
		assert.Equal(t, "janedoe", found.Username)
	})

	t.Run("update renames and bumps updated_at", func(t *testing.T) {
		current, err := registry.FindOneByUsername(ctx, "janedoe")
		require.NoError(t, err)

		newUsername := "janedoe2"
		updated, err := registry.Update(ctx, "janedoe", UserPatch{Username: &newUsername})
		require.NoError(t, err)

		assert.Equal(t, "janedoe2", updated.Username)
		assert.Equal(t, current.Email, updated.Email)
		assert.True(t, updated.UpdatedAt.After(current.UpdatedAt))
		assert.Equal(t, current.CreatedAt.UTC(), updated.CreatedAt.UTC())
	})

	t.Run("update to own username in another case is not a conflict", func(t *testing.T) {
		sameButUpper := "JANEDOE2"
		updated, err := registry.Update(ctx, "janedoe2", UserPatch{Username: &sameButUpper})
		require.NoError(t, err)
		assert.Equal(t, "JANEDOE2", updated.Username)
	})

	t.Run("update to a taken username conflicts", func(t *testing.T) {
		_, err := registry.Create(ctx, NewUser{
			Username: "occupied",
			Email:    "occupied@example.com",
			Password: "validpassword",
		})
		require.NoError(t, err)

		taken := "occupied"
		_, err = registry.Update(ctx, "janedoe2", UserPatch{Username: &taken})
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("update rehashes the password", func(t *testing.T) {
		before, err := registry.FindOneByUsername(ctx, "occupied")
		require.NoError(t, err)

		newPassword := "anothervalidpassword"
		updated, err := registry.Update(ctx, "occupied", UserPatch{Password: &newPassword})
		require.NoError(t, err)

		assert.NotEqual(t, before.Password, updated.Password)
		match, err := password.Compare("anothervalidpassword", updated.Password)
		require.NoError(t, err)
		assert.True(t, match)
	})

	t.Run("update of a missing user", func(t *testing.T) {
		email := "new@example.com"
		_, err := registry.Update(ctx, "ghost", UserPatch{Email: &email})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
