package adapthttp

import (
	"net/http"
	"time"
)

func (s *Server) handleStatsOverview(w http.ResponseWriter, r *http.Request) {
	view, err := s.overview.Build(r.Context(), time.Now())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleStatsLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := s.scoring.Leaderboard(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func (s *Server) handleStatsPot(w http.ResponseWriter, r *http.Request) {
	summary, err := s.pot.Summary(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleStatsPrognosis(w http.ResponseWriter, r *http.Request) {
	prognosis, err := s.prognosis.Project(r.Context(), time.Now())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prognosis)
}

func (s *Server) handleStatsProgress(w http.ResponseWriter, r *http.Request) {
	series, err := s.scoring.RelativeProgress(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"series": series})
}

func (s *Server) handleStatsUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	stats, err := s.scoring.UserStatsFor(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
