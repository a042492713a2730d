package adapthttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"weightbattle/internal/app"
	"weightbattle/internal/domain"
)

// weekView is the side-by-side view of one battle week.
type weekView struct {
	WeekStart    string              `json:"weekStart"`
	WeekEnd      string              `json:"weekEnd"`
	Comparison   []app.ComparisonRow `json:"comparison"`
	Winner       *string             `json:"winner"`
	Loser        *string             `json:"loser"`
	Missing      []string            `json:"missing"`
	AllWeighedIn bool                `json:"allWeighedIn"`
}

func (s *Server) handleWeekCurrent(w http.ResponseWriter, r *http.Request) {
	s.renderWeek(w, r, domain.WeekStartOf(time.Now()))
}

func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	weekStart := chi.URLParam(r, "weekStart")
	if _, err := domain.ParseDate(weekStart); err != nil {
		writeDomainError(w, err)
		return
	}
	s.renderWeek(w, r, weekStart)
}

func (s *Server) renderWeek(w http.ResponseWriter, r *http.Request, weekStart string) {
	weekEnd, err := domain.WeekEnd(weekStart)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	comparison, err := s.scoring.WeeklyComparison(r.Context(), weekStart)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	outcome, _, err := s.scoring.WeekOutcome(r.Context(), weekStart)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	view := weekView{
		WeekStart:  weekStart,
		WeekEnd:    weekEnd,
		Comparison: comparison,
		Missing:    []string{},
	}
	for _, row := range comparison {
		if !row.WeighedIn {
			view.Missing = append(view.Missing, row.Name)
			continue
		}
		if row.UserID == outcome.WinnerID {
			name := row.Name
			view.Winner = &name
		}
		if row.UserID == outcome.LoserID {
			name := row.Name
			view.Loser = &name
		}
	}
	view.AllWeighedIn = len(comparison) > 0 && len(view.Missing) == 0
	writeJSON(w, http.StatusOK, view)
}
