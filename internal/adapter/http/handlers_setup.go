package adapthttp

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"weightbattle/internal/app"
	"weightbattle/internal/domain"
)

func (s *Server) handleSetupStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.setup.Status(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleSetupComplete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Participants    []app.Participant `json:"participants"`
		PotContribution decimal.Decimal   `json:"potContribution"`
		TotalAmount     decimal.Decimal   `json:"totalAmount"`
		EndDate         string            `json:"endDate"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(body.Participants) == 0 {
		writeError(w, http.StatusBadRequest, errNoParticipants)
		return
	}

	cfg := domain.CompetitionConfig{
		PotContribution: body.PotContribution,
		TotalAmount:     body.TotalAmount,
		EndDate:         body.EndDate,
	}
	created, err := s.setup.Complete(r.Context(), body.Participants, cfg, "setup")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"participants": created,
		"config":       cfg,
	})
}

func (s *Server) handleSetupDemo(w http.ResponseWriter, r *http.Request) {
	if err := s.setup.LoadDemo(r.Context(), time.Now()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "weeks": 8})
}

func (s *Server) handleConfigGet(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.setup.Config(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleConfigUpdate(w http.ResponseWriter, r *http.Request) {
	var update app.ConfigUpdate
	if err := parseJSON(r, &update); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	cfg, err := s.setup.UpdateConfig(r.Context(), update, "api")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}
