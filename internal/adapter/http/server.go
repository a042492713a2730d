// Package adapthttp is the driving HTTP adapter: it routes JSON requests to
// the application services and serves the SPA.
package adapthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"weightbattle/internal/app"
)

// Server routes requests to the application services.
type Server struct {
	users     *app.UserService
	weighIns  *app.WeighInService
	scoring   *app.ScoringService
	pot       *app.PotService
	prognosis *app.PrognosisService
	overview  *app.OverviewService
	setup     *app.SetupService
	audit     *app.AuditService
	webDir    string
	log       *logrus.Logger
}

// Services bundles the application services the server depends on.
type Services struct {
	Users     *app.UserService
	WeighIns  *app.WeighInService
	Scoring   *app.ScoringService
	Pot       *app.PotService
	Prognosis *app.PrognosisService
	Overview  *app.OverviewService
	Setup     *app.SetupService
	Audit     *app.AuditService
}

// New creates a Server wired to the given application services.
func New(svc Services, webDir string, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		users:     svc.Users,
		weighIns:  svc.WeighIns,
		scoring:   svc.Scoring,
		pot:       svc.Pot,
		prognosis: svc.Prognosis,
		overview:  svc.Overview,
		setup:     svc.Setup,
		audit:     svc.Audit,
		webDir:    webDir,
		log:       log,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Use(withNoCache)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		})

		api.Get("/setup/status", s.handleSetupStatus)
		api.Post("/setup", s.handleSetupComplete)
		api.Post("/setup/demo", s.handleSetupDemo)
		api.Get("/config", s.handleConfigGet)
		api.Put("/config", s.handleConfigUpdate)

		api.Get("/users", s.handleUsersList)
		api.Post("/users", s.handleUserCreate)
		api.Get("/users/{id}", s.handleUserGet)
		api.Put("/users/{id}", s.handleUserUpdate)

		api.Post("/weigh-ins", s.handleWeighInCreate)
		api.Get("/weigh-ins/preview", s.handleWeighInPreview)
		api.Get("/weigh-ins/user/{id}", s.handleWeighInsForUser)

		api.Get("/weeks/current", s.handleWeekCurrent)
		api.Get("/weeks/{weekStart}", s.handleWeek)

		api.Get("/stats/overview", s.handleStatsOverview)
		api.Get("/stats/leaderboard", s.handleStatsLeaderboard)
		api.Get("/stats/pot", s.handleStatsPot)
		api.Get("/stats/prognosis", s.handleStatsPrognosis)
		api.Get("/stats/progress", s.handleStatsProgress)
		api.Get("/stats/user/{id}", s.handleStatsUser)

		api.Get("/audit", s.handleAuditList)
	})

	r.Handle("/*", spaFromDisk(s.webDir))
	return r
}
