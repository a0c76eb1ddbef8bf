package adapthttp

import (
	"net/http"

	"weightmelters/internal/app"
)

// plotlyTrace is one user's line in the figure handed to Plotly.js. The page
// loads Plotly itself; the server only supplies data and layout.
type plotlyTrace struct {
	X          []string    `json:"x"`
	Y          []float64   `json:"y"`
	Mode       string      `json:"mode"`
	Name       string      `json:"name"`
	CustomData []pointMeta `json:"customdata"`
	HoverInfo  string      `json:"hoverinfo"`
}

// pointMeta is the per-point tooltip payload.
type pointMeta struct {
	Email       string `json:"email"`
	AvatarURL   string `json:"avatar_url"`
	DisplayName string `json:"display_name"`
}

var graphLayout = map[string]any{
	"title":     "Weight Tracking",
	"xaxis":     map[string]any{"title": "Date"},
	"yaxis":     map[string]any{"title": "Weight (kg)"},
	"hovermode": "closest",
	"legend": map[string]any{
		"orientation": "h",
		"yanchor":     "bottom",
		"y":           1.02,
		"xanchor":     "right",
		"x":           1,
	},
	"margin": map[string]any{"l": 40, "r": 40, "t": 60, "b": 40},
	"height": 400,
}

func (s *Server) handleWeightGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	series, err := s.graph.BuildSeries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	traces := make([]plotlyTrace, 0, len(series))
	for _, us := range series {
		traces = append(traces, traceForSeries(us))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"traces": traces,
		"layout": graphLayout,
	})
}

func traceForSeries(us app.UserSeries) plotlyTrace {
	t := plotlyTrace{
		X:          make([]string, 0, len(us.Points)),
		Y:          make([]float64, 0, len(us.Points)),
		Mode:       "lines+markers",
		Name:       us.DisplayName,
		CustomData: make([]pointMeta, 0, len(us.Points)),
		HoverInfo:  "none",
	}
	meta := pointMeta{Email: us.Email, AvatarURL: us.AvatarURL, DisplayName: us.DisplayName}
	for _, p := range us.Points {
		t.X = append(t.X, p.Date)
		t.Y = append(t.Y, p.Weight)
		t.CustomData = append(t.CustomData, meta)
	}
	return t
}
