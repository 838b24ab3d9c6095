// Package auth implements credential verification and the session HTTP
// endpoints: login, logout and the authenticated profile route.
package auth

import (
	"context"
	"errors"
	"fmt"

	"pulse/internal/password"
	"pulse/internal/token"
	"pulse/internal/users"
)

// ErrInvalidCredentials is the uniform failure for a login attempt.
// An unknown email and a wrong password produce this exact value, so
// responses cannot be used to probe which accounts exist.
var ErrInvalidCredentials = errors.New("authentication data does not match")

// UserFinder is the slice of the user registry the validator needs
type UserFinder interface {
	FindOneByEmail(ctx context.Context, email string) (*users.User, error)
}

// Service defines credential verification
type Service interface {
	Validate(ctx context.Context, email, plaintext string) (*users.User, error)
}

// service implements the Service interface
type service struct {
	users UserFinder

	// decoyDigest is compared against when the email resolves to no
	// user, so both failure branches pay for one bcrypt comparison.
	decoyDigest string
}

// NewService creates a new credential validator
func NewService(userFinder UserFinder) Service {
	decoy, err := password.Hash(token.Generate())
	if err != nil {
		panic(fmt.Sprintf("failed to prepare decoy digest: %v", err))
	}

	return &service{
		users:       userFinder,
		decoyDigest: decoy,
	}
}

// Validate verifies the submitted credentials and returns the matching
// user. Exactly one hash comparison runs per call in every branch.
func (s *service) Validate(ctx context.Context, email, plaintext string) (*users.User, error) {
	user, err := s.users.FindOneByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			_, _ = password.Compare(plaintext, s.decoyDigest)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	match, err := password.Compare(plaintext, user.Password)
	if err != nil {
		// Corrupted digest in storage; surface it, never swallow it.
		return nil, fmt.Errorf("failed to compare password digest: %w", err)
	}
	if !match {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
