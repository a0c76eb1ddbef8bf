package app

import (
	"context"

	"weightmelters/internal/domain"
)

const avatarSize = 40

// GraphService builds the chart data for the shared weight graph.
type GraphService struct {
	weights domain.WeightRepository
	users   domain.UserRepository
}

// NewGraphService creates a GraphService backed by the given repositories.
func NewGraphService(weights domain.WeightRepository, users domain.UserRepository) *GraphService {
	return &GraphService{weights: weights, users: users}
}

// UserSeries is one user's chronological weight series plus the display data
// the chart legend and tooltips need.
type UserSeries struct {
	UserID      int64         `json:"userId"`
	DisplayName string        `json:"displayName"`
	Email       string        `json:"email"`
	AvatarURL   string        `json:"avatarUrl"`
	Points      []SeriesPoint `json:"points"`
}

// SeriesPoint is a single (date, weight) observation.
type SeriesPoint struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

// BuildSeries reads every entry date-ascending and groups strictly by user
// ID, so two users sharing a display name still produce two series. Missing
// dates are not filled in; a store with no entries yields an empty slice.
// Series appear in order of each user's earliest entry.
func (s *GraphService) BuildSeries(ctx context.Context) ([]UserSeries, error) {
	entries, err := s.weights.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[int64]int)
	series := make([]UserSeries, 0)

	for _, e := range entries {
		i, ok := index[e.UserID]
		if !ok {
			us := UserSeries{UserID: e.UserID}
			user, err := s.users.GetByID(ctx, e.UserID)
			if err != nil {
				return nil, err
			}
			if user != nil {
				us.DisplayName = user.DisplayName()
				us.Email = user.Email
				us.AvatarURL = domain.ResolveAvatarURL(user, avatarSize)
			}
			i = len(series)
			index[e.UserID] = i
			series = append(series, us)
		}
		series[i].Points = append(series[i].Points, SeriesPoint{Date: e.Date, Weight: e.Weight})
	}
	return series, nil
}
