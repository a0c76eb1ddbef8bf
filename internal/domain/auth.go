// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrUserExists indicates an attempt to create a user with an email address
// that is already registered.
var ErrUserExists = errors.New("user already exists")

// User represents an account in the system. Users authenticate by email;
// Name is optional display text and is not unique.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	AvatarURL    string
	CreatedAt    time.Time
}

// DisplayName returns the user's name if set, otherwise the local part of
// the email address.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	name, _, _ := strings.Cut(u.Email, "@")
	return name
}

// Session represents an active user session.
type Session struct {
	Token     string
	UserID    int64
	UserAgent string
	IP        string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// UserRepository defines the port for user persistence operations.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	// Create adds a user, returning ErrUserExists when the email is taken.
	Create(ctx context.Context, email, name, passwordHash string) (*User, error)
	Count(ctx context.Context) (int, error)
}

// SessionRepository defines the port for session persistence operations.
type SessionRepository interface {
	Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}
