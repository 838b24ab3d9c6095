package users

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user record. The stored bcrypt digest never leaves
// the server.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser is the request payload for creating a user
type NewUser struct {
	Username string `json:"username" binding:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// UserPatch is the request payload for partially updating a user
type UserPatch struct {
	Username *string `json:"username,omitempty" binding:"omitempty,min=3,max=30,alphanum"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=8,max=72"`
}
