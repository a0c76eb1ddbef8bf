// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"weightmelters/internal/domain"
)

type entryKey struct {
	userID int64
	date   string
}

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	entries  map[entryKey]*domain.WeightEntry
	users    []*domain.User
	sessions map[string]*domain.Session

	entryIDCounter int64
	userIDCounter  int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		entries:  make(map[entryKey]*domain.WeightEntry),
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var _ domain.WeightRepository = (*DB)(nil)
var _ domain.UserRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- WeightRepository ---

// Find returns the entry for (userID, date), or nil if absent.
func (db *DB) Find(ctx context.Context, userID int64, date string) (*domain.WeightEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if e, ok := db.entries[entryKey{userID, date}]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

// Upsert creates or replaces the single entry for (userID, date). The map
// key plus the mutex stand in for the SQL unique constraint: a second write
// for the same key can only ever overwrite, never duplicate.
func (db *DB) Upsert(ctx context.Context, userID int64, date string, weight float64, now time.Time) (*domain.WeightEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key := entryKey{userID, date}
	if e, ok := db.entries[key]; ok {
		e.Weight = weight
		e.UpdatedAt = now.UTC()
		cp := *e
		return &cp, nil
	}

	db.entryIDCounter++
	e := &domain.WeightEntry{
		ID:        db.entryIDCounter,
		UserID:    userID,
		Date:      date,
		Weight:    weight,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	db.entries[key] = e
	cp := *e
	return &cp, nil
}

// Delete removes an entry by ID, scoped to its owner.
func (db *DB) Delete(ctx context.Context, userID int64, id int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for key, e := range db.entries {
		if e.ID == id && e.UserID == userID {
			delete(db.entries, key)
			return true, nil
		}
	}
	return false, nil
}

// ListAll returns every entry across all users, date ascending.
func (db *DB) ListAll(ctx context.Context) ([]domain.WeightEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.WeightEntry, 0, len(db.entries))
	for _, e := range db.entries {
		result = append(result, *e)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		if result[i].UserID != result[j].UserID {
			return result[i].UserID < result[j].UserID
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// ListRecent returns the user's most recent entries, date descending.
func (db *DB) ListRecent(ctx context.Context, userID int64, limit int) ([]domain.WeightEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.WeightEntry, 0, limit)
	for _, e := range db.entries {
		if e.UserID == userID {
			result = append(result, *e)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date > result[j].Date
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// --- UserRepository ---

// GetByEmail retrieves a user by email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, email, name, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			return nil, domain.ErrUserExists
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// Count returns the total number of users.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		return s, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}
