package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pulse/internal/database"
)

// ErrSessionNotFound is returned when no valid session row matches a lookup.
// An existing-but-expired row is reported identically to a missing one.
var ErrSessionNotFound = errors.New("session not found")

// Store defines the persistence operations for session rows.
// Expired rows are never deleted; they stay behind for history.
type Store interface {
	Insert(ctx context.Context, s *Session) (*Session, error)
	FindValidByToken(ctx context.Context, token string, now time.Time) (*Session, error)
	UpdateExpiry(ctx context.Context, id uuid.UUID, expiresAt, updatedAt time.Time) (*Session, error)
	ExpireNow(ctx context.Context, id uuid.UUID, now time.Time) (*Session, error)
}

// postgresStore implements Store on top of the sessions table
type postgresStore struct {
	db database.Service
}

// NewStore creates a Postgres-backed session store
func NewStore(db database.Service) Store {
	return &postgresStore{db: db}
}

const sessionColumns = "id, token, user_id, expires_at, created_at, updated_at"

// Insert writes a new session row and returns it as stored
func (s *postgresStore) Insert(ctx context.Context, sess *Session) (*Session, error) {
	query := `
		INSERT INTO sessions (id, token, user_id, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + sessionColumns

	row := s.db.QueryRow(ctx, query,
		sess.ID, sess.Token, sess.UserID, sess.ExpiresAt, sess.CreatedAt, sess.UpdatedAt)

	stored, err := scanSession(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}
	return stored, nil
}

// FindValidByToken returns the session for the token only while it has
// not expired at the given instant.
func (s *postgresStore) FindValidByToken(ctx context.Context, token string, now time.Time) (*Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE token = $1
		  AND expires_at > $2
		LIMIT 1`

	stored, err := scanSession(s.db.QueryRow(ctx, query, token, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session by token: %w", err)
	}
	return stored, nil
}

// UpdateExpiry overwrites the expiry and update timestamps of one row
func (s *postgresStore) UpdateExpiry(ctx context.Context, id uuid.UUID, expiresAt, updatedAt time.Time) (*Session, error) {
	query := `
		UPDATE sessions
		SET expires_at = $2,
		    updated_at = $3
		WHERE id = $1
		RETURNING ` + sessionColumns

	stored, err := scanSession(s.db.QueryRow(ctx, query, id, expiresAt, updatedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to update session expiry: %w", err)
	}
	return stored, nil
}

// ExpireNow forces the session's expiry one tick into the past so the
// row is invalid immediately, regardless of clock granularity. Applying
// it to an already-expired row succeeds and returns the row unchanged
// in validity, which makes revocation idempotent.
func (s *postgresStore) ExpireNow(ctx context.Context, id uuid.UUID, now time.Time) (*Session, error) {
	return s.UpdateExpiry(ctx, id, now.Add(-time.Second), now)
}

func scanSession(row pgx.Row) (*Session, error) {
	var sess Session
	err := row.Scan(&sess.ID, &sess.Token, &sess.UserID, &sess.ExpiresAt, &sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}
