package adapthttp

import (
	"net/http"
	"time"
)

func (s *Server) handleWeighInCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID    int64   `json:"userId"`
		Weight    float64 `json:"weight"`
		WeekStart string  `json:"weekStart"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// The weigh-in is attributed to the participant it belongs to.
	user, err := s.users.Get(r.Context(), body.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	result, err := s.weighIns.Record(r.Context(), body.UserID, body.Weight, body.WeekStart, user.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleWeighInPreview(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Query(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	weight, err := floatQuery(r, "weight")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	preview, err := s.weighIns.Preview(r.Context(), userID, weight, time.Now())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

func (s *Server) handleWeighInsForUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	items, err := s.weighIns.ListForUser(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
