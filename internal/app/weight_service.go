package app

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"weightmelters/internal/domain"
)

// ErrEntryNotFound indicates that the addressed entry does not exist or is
// not owned by the caller. The two cases are deliberately indistinguishable.
var ErrEntryNotFound = errors.New("entry not found")

const dayFormat = "2006-01-02"

// WeightService encapsulates the weight-logging use cases.
type WeightService struct {
	repo domain.WeightRepository
}

// NewWeightService creates a WeightService backed by the given repository.
func NewWeightService(repo domain.WeightRepository) *WeightService {
	return &WeightService{repo: repo}
}

// GetTodayEntry returns the user's entry for the given local day, or nil if
// none has been logged yet.
func (s *WeightService) GetTodayEntry(ctx context.Context, userID int64, today string) (*domain.WeightEntry, error) {
	return s.repo.Find(ctx, userID, today)
}

// LogWeight validates the raw form values and stores exactly one entry for
// (user, date), creating it or replacing its weight as needed. Invalid input
// is rejected with a field-level validation error before any write.
func (s *WeightService) LogWeight(ctx context.Context, userID int64, dateStr, weightStr string) (*domain.WeightEntry, error) {
	date, err := time.Parse(dayFormat, dateStr)
	if err != nil {
		return nil, &domain.ValidationError{Field: "date", Message: "enter a valid date (YYYY-MM-DD)"}
	}

	weight, err := strconv.ParseFloat(weightStr, 64)
	if err != nil || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return nil, &domain.ValidationError{Field: "weight", Message: "enter a number"}
	}
	// Stored precision is two decimal places.
	weight = math.Round(weight*100) / 100
	if weight < 0.01 {
		return nil, &domain.ValidationError{Field: "weight", Message: "weight must be greater than 0"}
	}
	if weight > 999.99 {
		return nil, &domain.ValidationError{Field: "weight", Message: "weight must be less than 1000 kg"}
	}

	return s.repo.Upsert(ctx, userID, date.Format(dayFormat), weight, time.Now())
}

// ListRecent returns the user's most recent entries up to limit, newest
// first.
func (s *WeightService) ListRecent(ctx context.Context, userID int64, limit int) ([]domain.WeightEntry, error) {
	return s.repo.ListRecent(ctx, userID, limit)
}

// DeleteEntry removes the user's entry by ID. A missing entry and another
// user's entry both report ErrEntryNotFound.
func (s *WeightService) DeleteEntry(ctx context.Context, userID int64, id int64) error {
	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrEntryNotFound
	}
	return nil
}
