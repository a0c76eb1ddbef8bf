// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"weightmelters/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates that the provided email or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

const sessionTTL = 24 * time.Hour

// AuthService handles authentication and session management.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
	}
}

// normalizeEmail is applied before every lookup and create so addresses
// compare case-insensitively.
func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// Login authenticates a user by email and creates a session.
func (s *AuthService) Login(ctx context.Context, email, password, userAgent, ip string) (string, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil || user == nil {
		return "", ErrInvalidCredentials
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.createSession(ctx, user.ID, userAgent, ip)
}

// Logout invalidates a session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ValidateSession checks if a session token is valid and matches the user agent.
func (s *AuthService) ValidateSession(ctx context.Context, token, userAgent string) (*domain.User, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil || session == nil {
		return nil, ErrSessionNotFound
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	if session.UserAgent != userAgent {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil || user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// Register creates a new account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, &domain.ValidationError{Field: "email", Message: "enter a valid email address"}
	}
	if len(password) < 8 {
		return nil, &domain.ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.users.Create(ctx, email, name, string(hash))
}

// CreateInitialUser creates the first account if no users exist yet.
func (s *AuthService) CreateInitialUser(ctx context.Context, email, name, password string) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return err
	}

	if count > 0 {
		return errors.New("users already exist")
	}

	_, err = s.Register(ctx, email, name, password)
	return err
}

// ValidateForwardAuth validates a request from Authelia forward auth. The
// Remote-User header carries the authenticated email.
func (s *AuthService) ValidateForwardAuth(ctx context.Context, remoteUser string) (*domain.User, error) {
	if remoteUser == "" {
		return nil, errors.New("no remote user header")
	}
	return s.provisionUser(ctx, remoteUser)
}

// LoginWithUser creates a session for an already authenticated user (e.g.
// via SSO), provisioning the account on first login.
func (s *AuthService) LoginWithUser(ctx context.Context, email, userAgent, ip string) (string, error) {
	user, err := s.provisionUser(ctx, email)
	if err != nil {
		return "", err
	}
	return s.createSession(ctx, user.ID, userAgent, ip)
}

// provisionUser finds the account for an externally authenticated email,
// creating it with an empty password hash on first sight. A create that
// loses the unique-constraint race falls back to the winner's row.
func (s *AuthService) provisionUser(ctx context.Context, email string) (*domain.User, error) {
	email = normalizeEmail(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user, err = s.users.Create(ctx, email, "", "")
	if errors.Is(err, domain.ErrUserExists) {
		return s.users.GetByEmail(ctx, email)
	}
	return user, err
}

func (s *AuthService) createSession(ctx context.Context, userID int64, userAgent, ip string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(sessionTTL)
	if err := s.sessions.Create(ctx, userID, token, userAgent, ip, expiresAt); err != nil {
		return "", err
	}

	return token, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
