package adapthttp

import (
	"errors"
	"net/http"
	"strconv"
)

var errInvalidEntityID = errors.New("invalid entityId")

func (s *Server) handleAuditList(w http.ResponseWriter, r *http.Request) {
	entity := r.URL.Query().Get("entity")
	limit := intQuery(r, "limit", 100)

	var entityID int64
	if v := r.URL.Query().Get("entityId"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, errInvalidEntityID)
			return
		}
		entityID = n
	}

	entries, err := s.audit.List(r.Context(), entity, entityID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}
