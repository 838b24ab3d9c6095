package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse/internal/database"
	"pulse/internal/testdb"
	"pulse/internal/token"
)

func insertTestUser(t *testing.T, db database.Service) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO users (id, username, email, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())`,
		id, "user"+id.String()[:8], id.String()[:8]+"@example.com", "irrelevant-digest")
	require.NoError(t, err)
	return id
}

func newStoredSession(userID uuid.UUID, now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		Token:     token.Generate(),
		UserID:    userID,
		ExpiresAt: now.Add(Expiration),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := testdb.Start(t)
	store := NewStore(db)
	ctx := context.Background()
	userID := insertTestUser(t, db)

	t.Run("insert and find round-trip", func(t *testing.T) {
		now := time.Now().UTC()
		sess := newStoredSession(userID, now)

		stored, err := store.Insert(ctx, sess)
		require.NoError(t, err)
		assert.Equal(t, sess.ID, stored.ID)
		assert.Equal(t, sess.Token, stored.Token)
		assert.Equal(t, userID, stored.UserID)

		found, err := store.FindValidByToken(ctx, sess.Token, now)
		require.NoError(t, err)
		assert.Equal(t, sess.ID, found.ID)
		assert.WithinDuration(t, sess.ExpiresAt, found.ExpiresAt, time.Millisecond)
	})

	t.Run("expired row reads like a missing row", func(t *testing.T) {
		now := time.Now().UTC()
		sess := newStoredSession(userID, now)
		_, err := store.Insert(ctx, sess)
		require.NoError(t, err)

		// Valid right now, gone once the clock passes the deadline.
		_, err = store.FindValidByToken(ctx, sess.Token, now)
		require.NoError(t, err)

		_, err = store.FindValidByToken(ctx, sess.Token, sess.ExpiresAt.Add(time.Second))
		assert.ErrorIs(t, err, ErrSessionNotFound)

		_, err = store.FindValidByToken(ctx, token.Generate(), now)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("update expiry persists", func(t *testing.T) {
		now := time.Now().UTC()
		sess := newStoredSession(userID, now)
		_, err := store.Insert(ctx, sess)
		require.NoError(t, err)

		later := now.Add(Expiration / 2)
		renewed, err := store.UpdateExpiry(ctx, sess.ID, later.Add(Expiration), later)
		require.NoError(t, err)
		assert.WithinDuration(t, later.Add(Expiration), renewed.ExpiresAt, time.Millisecond)
		assert.WithinDuration(t, later, renewed.UpdatedAt, time.Millisecond)

		found, err := store.FindValidByToken(ctx, sess.Token, later)
		require.NoError(t, err)
		assert.WithinDuration(t, later.Add(Expiration), found.ExpiresAt, time.Millisecond)
	})

	t.Run("update expiry of missing row", func(t *testing.T) {
		now := time.Now().UTC()
		_, err := store.UpdateExpiry(ctx, uuid.New(), now.Add(Expiration), now)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("expire now is immediate and idempotent", func(t *testing.T) {
		now := time.Now().UTC()
		sess := newStoredSession(userID, now)
		_, err := store.Insert(ctx, sess)
		require.NoError(t, err)

		revoked, err := store.ExpireNow(ctx, sess.ID, now)
		require.NoError(t, err)
		assert.True(t, revoked.ExpiresAt.Before(now), "expires_at should be in the past")

		_, err = store.FindValidByToken(ctx, sess.Token, now)
		assert.ErrorIs(t, err, ErrSessionNotFound)

		again, err := store.ExpireNow(ctx, sess.ID, now.Add(time.Minute))
		require.NoError(t, err)
		assert.True(t, again.ExpiresAt.Before(now.Add(time.Minute)))
	})

	t.Run("token uniqueness is enforced", func(t *testing.T) {
		now := time.Now().UTC()
		sess := newStoredSession(userID, now)
		_, err := store.Insert(ctx, sess)
		require.NoError(t, err)

		duplicate := newStoredSession(userID, now)
		duplicate.Token = sess.Token
		_, err = store.Insert(ctx, duplicate)
		assert.Error(t, err)
	})
}

func TestManagerAgainstPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := testdb.Start(t)
	mgr := NewManager(NewStore(db))
	ctx := context.Background()
	userID := insertTestUser(t, db)

	created, err := mgr.Create(ctx, userID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(Expiration), created.ExpiresAt, 5*time.Second)

	renewed, err := mgr.ValidateAndRenew(ctx, created.Token)
	require.NoError(t, err)
	assert.True(t, renewed.ExpiresAt.After(created.ExpiresAt) || renewed.ExpiresAt.Equal(created.ExpiresAt))

	revoked, err := mgr.Revoke(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, revoked.ExpiresAt.Before(time.Now()))

	_, err = mgr.ValidateAndRenew(ctx, created.Token)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}
