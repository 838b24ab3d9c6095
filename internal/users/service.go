// Package users implements the user registry: account creation, lookup
// and field updates, with case-insensitive uniqueness of username and
// email. The session core only ever reads a user's id and stored
// password digest from here.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pulse/internal/database"
	"pulse/internal/password"
)

var (
	// ErrUserNotFound is returned when no user matches a lookup
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when the username is already in use
	ErrUsernameTaken = errors.New("username already in use")
	// ErrEmailTaken is returned when the email is already in use
	ErrEmailTaken = errors.New("email already in use")
)

// Service defines the user registry operations
type Service interface {
	Create(ctx context.Context, input NewUser) (*User, error)
	FindOneByUsername(ctx context.Context, username string) (*User, error)
	FindOneByEmail(ctx context.Context, email string) (*User, error)
	FindOneByID(ctx context.Context, id uuid.UUID) (*User, error)
	Update(ctx context.Context, currentUsername string, patch UserPatch) (*User, error)
}

// service implements the Service interface
type service struct {
	db database.Service
}

// NewService creates a new user registry service
func NewService(db database.Service) Service {
	return &service{db: db}
}

const userColumns = "id, username, email, password, created_at, updated_at"

// Create inserts a new user after checking username and email uniqueness
func (s *service) Create(ctx context.Context, input NewUser) (*User, error) {
	if err := s.checkUniqueUsername(ctx, input.Username); err != nil {
		return nil, err
	}
	if err := s.checkUniqueEmail(ctx, input.Email); err != nil {
		return nil, err
	}

	digest, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO users (id, username, email, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	row := s.db.QueryRow(ctx, query, uuid.New(), input.Username, input.Email, digest, now, now)

	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// FindOneByUsername retrieves a user by username, case-insensitively
func (s *service) FindOneByUsername(ctx context.Context, username string) (*User, error) {
	return s.findOne(ctx, "LOWER(username) = LOWER($1)", username)
}

// FindOneByEmail retrieves a user by email, case-insensitively
func (s *service) FindOneByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, "LOWER(email) = LOWER($1)", email)
}

// FindOneByID retrieves a user by id
func (s *service) FindOneByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.findOne(ctx, "id = $1", id)
}

func (s *service) findOne(ctx context.Context, where string, arg any) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE ` + where + `
		LIMIT 1`

	user, err := scanUser(s.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// Update applies a partial update to the user identified by
// currentUsername. Uniqueness is only re-checked for fields that
// actually change, so re-submitting the current value (in any casing
// that matches) is not a conflict.
func (s *service) Update(ctx context.Context, currentUsername string, patch UserPatch) (*User, error) {
	current, err := s.FindOneByUsername(ctx, currentUsername)
	if err != nil {
		return nil, err
	}

	updated := *current

	if patch.Username != nil && !strings.EqualFold(*patch.Username, current.Username) {
		if err := s.checkUniqueUsername(ctx, *patch.Username); err != nil {
			return nil, err
		}
		updated.Username = *patch.Username
	} else if patch.Username != nil {
		updated.Username = *patch.Username
	}

	if patch.Email != nil && !strings.EqualFold(*patch.Email, current.Email) {
		if err := s.checkUniqueEmail(ctx, *patch.Email); err != nil {
			return nil, err
		}
		updated.Email = *patch.Email
	} else if patch.Email != nil {
		updated.Email = *patch.Email
	}

	if patch.Password != nil {
		digest, err := password.Hash(*patch.Password)
		if err != nil {
			return nil, err
		}
		updated.Password = digest
	}

	query := `
		UPDATE users
		SET username = $2,
		    email = $3,
		    password = $4,
		    updated_at = $5
		WHERE id = $1
		RETURNING ` + userColumns

	row := s.db.QueryRow(ctx, query,
		updated.ID, updated.Username, updated.Email, updated.Password, time.Now().UTC())

	stored, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return stored, nil
}

func (s *service) checkUniqueUsername(ctx context.Context, username string) error {
	taken, err := s.fieldInUse(ctx, "username", username)
	if err != nil {
		return err
	}
	if taken {
		return ErrUsernameTaken
	}
	return nil
}

func (s *service) checkUniqueEmail(ctx context.Context, email string) error {
	taken, err := s.fieldInUse(ctx, "email", email)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}
	return nil
}

func (s *service) fieldInUse(ctx context.Context, field, value string) (bool, error) {
	// field is always one of the two literals above, never user input
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(%s) = LOWER($1))`, field)

	var exists bool
	if err := s.db.QueryRow(ctx, query, value).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s uniqueness: %w", field, err)
	}
	return exists, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

