package domain

import (
	"context"
	"time"
)

// WeightEntry is one user's recorded weight, in kilograms, for one calendar
// date. There is at most one entry per (user, date).
type WeightEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Date      string    `json:"date"`
	Weight    float64   `json:"weight"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WeightRepository is the port for weight-entry persistence. Dates are ISO
// calendar days ("2006-01-02").
type WeightRepository interface {
	// Find returns the entry for (userID, date), or nil if absent.
	Find(ctx context.Context, userID int64, date string) (*WeightEntry, error)
	// Upsert creates or replaces the single entry for (userID, date). It is
	// atomic with respect to the (user_id, date) uniqueness constraint; an
	// update keeps created_at and bumps updated_at.
	Upsert(ctx context.Context, userID int64, date string, weight float64, now time.Time) (*WeightEntry, error)
	// Delete removes the entry by ID if it belongs to userID, reporting
	// whether a row was removed.
	Delete(ctx context.Context, userID int64, id int64) (bool, error)
	// ListAll returns every entry across all users, date ascending.
	ListAll(ctx context.Context) ([]WeightEntry, error)
	// ListRecent returns the user's most recent entries, date descending, up
	// to limit.
	ListRecent(ctx context.Context, userID int64, limit int) ([]WeightEntry, error)
}
