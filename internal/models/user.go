package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. Users own every other entity in the
// system via the CreatedBy field on those entities.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the user's email address (unique, used for login).
	Email string `json:"email"`

	// PhotoURL is an optional profile picture URL.
	PhotoURL string `json:"photoURL,omitempty"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized in API responses.
	PasswordHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"createdAt"`
}

// NewUser creates a user with a fresh ID and creation timestamp.
func NewUser(name, email, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
