package adapthttp

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"weightmelters/internal/app"
	"weightmelters/internal/domain"
)

func (s *Server) handleWeightToday(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user := userFromContext(r)
	today := localDayString(time.Now())

	entry, err := s.weight.GetTodayEntry(r.Context(), user.ID, today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"today": today, "entry": entry})
}

func (s *Server) handleWeightLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user := userFromContext(r)

	var body struct {
		Date   string `json:"date"`
		Weight string `json:"weight"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	entry, err := s.weight.LogWeight(r.Context(), user.ID, body.Date, body.Weight)
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entry": entry})
}

func (s *Server) handleWeightEntries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user := userFromContext(r)
	limit := intQuery(r, "limit", 10)

	items, err := s.weight.ListRecent(r.Context(), user.ID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleWeightDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user := userFromContext(r)

	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/weight/"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	err = s.weight.DeleteEntry(r.Context(), user.ID, id)
	if errors.Is(err, app.ErrEntryNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
