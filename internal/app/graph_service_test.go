package app_test

import (
	"context"
	"errors"
	"testing"

	"weightmelters/internal/app"
	"weightmelters/internal/domain"
)

type mockUserRepo struct {
	byEmailFn func(ctx context.Context, email string) (*domain.User, error)
	byIDFn    func(ctx context.Context, id int64) (*domain.User, error)
	createFn  func(ctx context.Context, email, name, passwordHash string) (*domain.User, error)
	countFn   func(ctx context.Context) (int, error)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.byEmailFn != nil {
		return m.byEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.byIDFn != nil {
		return m.byIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, email, name, passwordHash string) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, email, name, passwordHash)
	}
	return nil, nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func TestBuildSeries_Empty(t *testing.T) {
	svc := app.NewGraphService(&mockWeightRepo{}, &mockUserRepo{})
	series, err := svc.BuildSeries(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 0 {
		t.Fatalf("expected empty result, got %d series", len(series))
	}
}

func TestBuildSeries_GroupsByUserID(t *testing.T) {
	// Two distinct users sharing the display name "Sam" must produce two
	// distinct series.
	weights := &mockWeightRepo{
		listAllFn: func(_ context.Context) ([]domain.WeightEntry, error) {
			return []domain.WeightEntry{
				{ID: 1, UserID: 1, Date: "2024-01-10", Weight: 80},
				{ID: 2, UserID: 2, Date: "2024-01-10", Weight: 90},
				{ID: 3, UserID: 1, Date: "2024-01-11", Weight: 79.5},
			}, nil
		},
	}
	users := &mockUserRepo{
		byIDFn: func(_ context.Context, id int64) (*domain.User, error) {
			emails := map[int64]string{1: "sam.a@example.com", 2: "sam.b@example.com"}
			return &domain.User{ID: id, Email: emails[id], Name: "Sam"}, nil
		},
	}

	svc := app.NewGraphService(weights, users)
	series, err := svc.BuildSeries(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(series))
	}
	if series[0].UserID == series[1].UserID {
		t.Fatal("expected distinct user IDs")
	}
	if series[0].DisplayName != "Sam" || series[1].DisplayName != "Sam" {
		t.Errorf("expected both display names to be Sam, got %q and %q", series[0].DisplayName, series[1].DisplayName)
	}
	if len(series[0].Points) != 2 || len(series[1].Points) != 1 {
		t.Errorf("unexpected point counts: %d and %d", len(series[0].Points), len(series[1].Points))
	}
}

func TestBuildSeries_ChronologicalPoints(t *testing.T) {
	// ListAll contract is date ascending; the series must preserve it, with
	// no gap-filling for missing days.
	weights := &mockWeightRepo{
		listAllFn: func(_ context.Context) ([]domain.WeightEntry, error) {
			return []domain.WeightEntry{
				{ID: 1, UserID: 1, Date: "2024-01-10", Weight: 80},
				{ID: 3, UserID: 1, Date: "2024-01-12", Weight: 79},
				{ID: 2, UserID: 1, Date: "2024-01-15", Weight: 78.5},
			}, nil
		},
	}
	users := &mockUserRepo{
		byIDFn: func(_ context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: id, Email: "a@example.com"}, nil
		},
	}

	svc := app.NewGraphService(weights, users)
	series, err := svc.BuildSeries(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 1 {
		t.Fatalf("expected 1 series, got %d", len(series))
	}
	wantDates := []string{"2024-01-10", "2024-01-12", "2024-01-15"}
	if len(series[0].Points) != len(wantDates) {
		t.Fatalf("expected %d points, got %d", len(wantDates), len(series[0].Points))
	}
	for i, p := range series[0].Points {
		if p.Date != wantDates[i] {
			t.Errorf("point %d: date %q; want %q", i, p.Date, wantDates[i])
		}
	}
}

func TestBuildSeries_AvatarAndDisplayName(t *testing.T) {
	weights := &mockWeightRepo{
		listAllFn: func(_ context.Context) ([]domain.WeightEntry, error) {
			return []domain.WeightEntry{{ID: 1, UserID: 1, Date: "2024-01-10", Weight: 80}}, nil
		},
	}
	users := &mockUserRepo{
		byIDFn: func(_ context.Context, _ int64) (*domain.User, error) {
			return &domain.User{ID: 1, Email: "user@example.com"}, nil
		},
	}

	svc := app.NewGraphService(weights, users)
	series, err := svc.BuildSeries(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series[0].DisplayName != "user" {
		t.Errorf("expected email-prefix display name, got %q", series[0].DisplayName)
	}
	if series[0].AvatarURL != domain.GravatarURL("user@example.com", 40) {
		t.Errorf("expected gravatar fallback, got %q", series[0].AvatarURL)
	}
}

func TestBuildSeries_RepoError(t *testing.T) {
	weights := &mockWeightRepo{
		listAllFn: func(_ context.Context) ([]domain.WeightEntry, error) {
			return nil, errors.New("db down")
		},
	}
	svc := app.NewGraphService(weights, &mockUserRepo{})
	if _, err := svc.BuildSeries(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
