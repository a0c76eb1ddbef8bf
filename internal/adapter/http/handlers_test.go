package adapthttp_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	adapthttp "weightmelters/internal/adapter/http"
	"weightmelters/internal/adapter/memory"
	"weightmelters/internal/app"
)

// newTestServer wires the full handler stack over the in-memory adapter.
// Requests authenticate with the forward-auth header, which auto-provisions
// the user on first sight.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db := memory.New()
	weightSvc := app.NewWeightService(db)
	graphSvc := app.NewGraphService(db, db)
	authSvc := app.NewAuthService(db, db.NewSessionRepo())

	h := adapthttp.New(weightSvc, graphSvc, authSvc, adapthttp.OIDCConfig{}, t.TempDir()).Handler()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, remoteUser string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if remoteUser != "" {
		req.Header.Set("Remote-User", remoteUser)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestWeightRoutes_RequireAuth(t *testing.T) {
	ts := newTestServer(t)
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/weight/entries", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestLogWeight_UpsertFlow(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/weight/log", "a@example.com",
		map[string]string{"date": "2024-01-15", "weight": "75.5"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	// Logging the same day again replaces the weight instead of adding a row.
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/weight/log", "a@example.com",
		map[string]string{"date": "2024-01-15", "weight": "76.0"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/weight/entries", "a@example.com", nil)
	var body struct {
		Items []struct {
			Date   string  `json:"date"`
			Weight float64 `json:"weight"`
		} `json:"items"`
	}
	decodeBody(t, resp, &body)
	if len(body.Items) != 1 {
		t.Fatalf("expected exactly one entry, got %d", len(body.Items))
	}
	if body.Items[0].Weight != 76.0 {
		t.Errorf("expected weight 76.0, got %v", body.Items[0].Weight)
	}
}

func TestLogWeight_InvalidInput(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		date   string
		weight string
		field  string
	}{
		{"negative weight", "2024-01-15", "-5", "weight"},
		{"weight too large", "2024-01-15", "1000", "weight"},
		{"bad date", "someday", "80", "date"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, ts.URL+"/api/weight/log", "a@example.com",
				map[string]string{"date": tc.date, "weight": tc.weight})
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			var body struct {
				Field string `json:"field"`
			}
			decodeBody(t, resp, &body)
			if body.Field != tc.field {
				t.Errorf("expected field %q, got %q", tc.field, body.Field)
			}
		})
	}

	// Nothing was written.
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/weight/entries", "a@example.com", nil)
	var body struct {
		Items []any `json:"items"`
	}
	decodeBody(t, resp, &body)
	if len(body.Items) != 0 {
		t.Fatalf("expected no entries after rejected input, got %d", len(body.Items))
	}
}

func TestWeightToday(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/weight/today", "a@example.com", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Today string          `json:"today"`
		Entry json.RawMessage `json:"entry"`
	}
	decodeBody(t, resp, &body)
	if body.Today == "" {
		t.Error("expected today string")
	}
	if string(body.Entry) != "null" {
		t.Errorf("expected null entry before any log, got %s", body.Entry)
	}
}

func TestDeleteWeight_OwnerAndForeign(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/weight/log", "owner@example.com",
		map[string]string{"date": "2024-01-15", "weight": "80"})
	var logged struct {
		Entry struct {
			ID int64 `json:"id"`
		} `json:"entry"`
	}
	decodeBody(t, resp, &logged)

	// Another user deleting the entry sees not-found, and the entry stays.
	url := fmt.Sprintf("%s/api/weight/%d", ts.URL, logged.Entry.ID)
	resp = doJSON(t, http.MethodDelete, url, "other@example.com", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign delete, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/weight/entries", "owner@example.com", nil)
	var body struct {
		Items []any `json:"items"`
	}
	decodeBody(t, resp, &body)
	if len(body.Items) != 1 {
		t.Fatalf("entry should survive a foreign delete, got %d items", len(body.Items))
	}

	resp = doJSON(t, http.MethodDelete, url, "owner@example.com", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for owner delete, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodDelete, url, "owner@example.com", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for repeated delete, got %d", resp.StatusCode)
	}
}

func TestWeightGraph(t *testing.T) {
	ts := newTestServer(t)

	// Two distinct users whose display names collide: both emails have the
	// local part "sam", so both fall back to the same display name.
	for _, c := range []struct {
		user, date, weight string
	}{
		{"sam@a.example.com", "2024-01-10", "80"},
		{"sam@b.example.com", "2024-01-10", "90"},
		{"sam@a.example.com", "2024-01-12", "79.5"},
	} {
		resp := doJSON(t, http.MethodPost, ts.URL+"/api/weight/log", c.user,
			map[string]string{"date": c.date, "weight": c.weight})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("log failed with %d", resp.StatusCode)
		}
	}

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/weight/graph", "sam@a.example.com", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Traces []struct {
			X    []string  `json:"x"`
			Y    []float64 `json:"y"`
			Mode string    `json:"mode"`
			Name string    `json:"name"`
		} `json:"traces"`
		Layout map[string]any `json:"layout"`
	}
	decodeBody(t, resp, &body)

	if len(body.Traces) != 2 {
		t.Fatalf("expected one trace per user, got %d", len(body.Traces))
	}
	if body.Traces[0].Name != "sam" || body.Traces[1].Name != "sam" {
		t.Errorf("expected both traces named sam, got %q and %q", body.Traces[0].Name, body.Traces[1].Name)
	}
	if len(body.Traces[0].X) != 2 || body.Traces[0].X[0] != "2024-01-10" || body.Traces[0].X[1] != "2024-01-12" {
		t.Errorf("unexpected x values: %v", body.Traces[0].X)
	}
	if body.Traces[0].Mode != "lines+markers" {
		t.Errorf("unexpected mode: %q", body.Traces[0].Mode)
	}
	if body.Layout["title"] != "Weight Tracking" {
		t.Errorf("unexpected layout title: %v", body.Layout["title"])
	}
}

func TestWeightGraph_Empty(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/weight/graph", "a@example.com", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Traces []any `json:"traces"`
	}
	decodeBody(t, resp, &body)
	if len(body.Traces) != 0 {
		t.Fatalf("expected no traces, got %d", len(body.Traces))
	}
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "",
		map[string]string{"email": "new@example.com", "name": "New", "password": "longenough"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(resp.Cookies()) == 0 {
		t.Fatal("expected a session cookie on register")
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "",
		map[string]string{"email": "new@example.com", "name": "Other", "password": "longenough"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "",
		map[string]string{"email": "new@example.com", "password": "wrongpass"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "",
		map[string]string{"email": "new@example.com", "password": "longenough"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestSSODisabled(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/auth/sso/login", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 with SSO disabled, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/auth/config", "", nil)
	var body struct {
		SSOEnabled bool `json:"sso_enabled"`
	}
	decodeBody(t, resp, &body)
	if body.SSOEnabled {
		t.Error("expected sso_enabled=false")
	}
}
