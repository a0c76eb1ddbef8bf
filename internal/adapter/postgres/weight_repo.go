package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"weightmelters/internal/domain"
)

const dayFormat = "2006-01-02"

// Find returns the entry for (userID, date), or nil if absent.
func (d *DB) Find(ctx context.Context, userID int64, date string) (*domain.WeightEntry, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT id, user_id, entry_date, weight, created_at, updated_at FROM weight_entries WHERE user_id=$1 AND entry_date=$2;",
		userID, date,
	)
	return scanEntry(row)
}

// Upsert creates or replaces the single entry for (userID, date). The
// ON CONFLICT clause makes concurrent logs for the same day serialize at the
// store instead of racing a check-then-write.
func (d *DB) Upsert(ctx context.Context, userID int64, date string, weight float64, now time.Time) (*domain.WeightEntry, error) {
	row := d.sql.QueryRowContext(ctx,
		`INSERT INTO weight_entries(user_id, entry_date, weight, created_at, updated_at)
		 VALUES($1, $2, $3, $4, $4)
		 ON CONFLICT (user_id, entry_date)
		 DO UPDATE SET weight = EXCLUDED.weight, updated_at = EXCLUDED.updated_at
		 RETURNING id, user_id, entry_date, weight, created_at, updated_at;`,
		userID, date, weight, now.UTC(),
	)
	return scanEntry(row)
}

// Delete removes an entry by ID, scoped to its owner.
func (d *DB) Delete(ctx context.Context, userID int64, id int64) (bool, error) {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM weight_entries WHERE id=$1 AND user_id=$2;", id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListAll returns every entry across all users, date ascending.
func (d *DB) ListAll(ctx context.Context) ([]domain.WeightEntry, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, user_id, entry_date, weight, created_at, updated_at FROM weight_entries ORDER BY entry_date ASC, user_id ASC, id ASC;")
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// ListRecent returns the user's most recent entries, date descending, up to limit.
func (d *DB) ListRecent(ctx context.Context, userID int64, limit int) ([]domain.WeightEntry, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, user_id, entry_date, weight, created_at, updated_at FROM weight_entries WHERE user_id=$1 ORDER BY entry_date DESC LIMIT $2;",
		userID, limit)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func scanEntry(row *sql.Row) (*domain.WeightEntry, error) {
	var e domain.WeightEntry
	var day time.Time
	if err := row.Scan(&e.ID, &e.UserID, &day, &e.Weight, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	e.Date = day.Format(dayFormat)
	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]domain.WeightEntry, error) {
	defer rows.Close() //nolint:errcheck

	out := make([]domain.WeightEntry, 0)
	for rows.Next() {
		var e domain.WeightEntry
		var day time.Time
		if err := rows.Scan(&e.ID, &e.UserID, &day, &e.Weight, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		e.Date = day.Format(dayFormat)
		out = append(out, e)
	}
	return out, rows.Err()
}
