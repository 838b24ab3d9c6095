// Package session implements the session lifecycle: issuing opaque
// bearer tokens, validating them with sliding-window renewal, and
// revoking them. Sessions live in PostgreSQL; the package keeps no
// in-process state between calls, so concurrent renewals of the same
// session resolve as last-write-wins at the row level.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pulse/internal/token"
)

// ErrNoActiveSession is the uniform failure for every invalid token.
// A token that never existed, one that expired and one that was revoked
// are indistinguishable to callers.
var ErrNoActiveSession = errors.New("no active session")

// Manager defines the session lifecycle operations
type Manager interface {
	Create(ctx context.Context, userID uuid.UUID) (*Session, error)
	ValidateAndRenew(ctx context.Context, tok string) (*Session, error)
	Revoke(ctx context.Context, id uuid.UUID) (*Session, error)
}

// manager implements Manager
type manager struct {
	store Store
	now   func() time.Time
}

// NewManager creates a session manager backed by the given store
func NewManager(store Store) Manager {
	return &manager{
		store: store,
		now:   time.Now,
	}
}

// Create issues a new session for the user. The returned session holds
// the plaintext token; this is the only moment it is handed out.
func (m *manager) Create(ctx context.Context, userID uuid.UUID) (*Session, error) {
	now := m.now().UTC()

	sess := &Session{
		ID:        uuid.New(),
		Token:     token.Generate(),
		UserID:    userID,
		ExpiresAt: now.Add(Expiration),
		CreatedAt: now,
		UpdatedAt: now,
	}

	stored, err := m.store.Insert(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return stored, nil
}

// ValidateAndRenew looks up the session for the token and, when valid,
// restarts the full expiration window from now. Every successful
// validation renews; there is no renew-only-if-stale shortcut, so each
// authenticated access extends the session by a whole window.
func (m *manager) ValidateAndRenew(ctx context.Context, tok string) (*Session, error) {
	found, err := m.store.FindValidByToken(ctx, tok, m.now().UTC())
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, fmt.Errorf("failed to validate session: %w", err)
	}

	now := m.now().UTC()
	renewed, err := m.store.UpdateExpiry(ctx, found.ID, now.Add(Expiration), now)
	if err != nil {
		// The row vanished between lookup and renewal; same outcome as
		// never having found it.
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, fmt.Errorf("failed to renew session: %w", err)
	}
	return renewed, nil
}

// Revoke expires the session immediately. Revoking a session that is
// already expired succeeds and returns the still-expired row.
func (m *manager) Revoke(ctx context.Context, id uuid.UUID) (*Session, error) {
	revoked, err := m.store.ExpireNow(ctx, id, m.now().UTC())
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, fmt.Errorf("failed to revoke session: %w", err)
	}
	return revoked, nil
}
