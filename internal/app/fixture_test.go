package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"weightbattle/internal/adapter/memory"
	"weightbattle/internal/app"
	"weightbattle/internal/domain"
)

// fixture wires the full service graph over the in-memory store.
type fixture struct {
	db        *memory.DB
	potRepo   *memory.PotRepo
	auditRepo *memory.AuditRepo

	scoring   *app.ScoringService
	pot       *app.PotService
	users     *app.UserService
	weighIns  *app.WeighInService
	prognosis *app.PrognosisService
	overview  *app.OverviewService
	setup     *app.SetupService
}

func newFixture() *fixture {
	db := memory.New()
	potRepo := db.NewPotRepo()
	auditRepo := db.NewAuditRepo()

	scoring := app.NewScoringService(db, db)
	pot := app.NewPotService(db, potRepo, db, scoring)
	weighIns := app.NewWeighInService(db, db, auditRepo, pot, scoring)

	return &fixture{
		db:        db,
		potRepo:   potRepo,
		auditRepo: auditRepo,
		scoring:   scoring,
		pot:       pot,
		users:     app.NewUserService(db, auditRepo),
		weighIns:  weighIns,
		prognosis: app.NewPrognosisService(db, db, db),
		overview:  app.NewOverviewService(db, db, db, scoring, pot),
		setup:     app.NewSetupService(db, db, auditRepo, weighIns),
	}
}

func (f *fixture) mustUser(t *testing.T, name string, startWeight float64) *domain.User {
	t.Helper()
	u, err := f.db.Create(context.Background(), name, startWeight)
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func (f *fixture) mustWeighIn(t *testing.T, userID int64, weekStart string, weight float64) {
	t.Helper()
	if _, _, err := f.db.Upsert(context.Background(), userID, weekStart, weight, time.Now()); err != nil {
		t.Fatalf("weigh-in for user %d week %s: %v", userID, weekStart, err)
	}
}

func (f *fixture) mustConfig(t *testing.T, potContribution, totalAmount int64, endDate string) {
	t.Helper()
	cfg := domain.CompetitionConfig{
		PotContribution: decimal.NewFromInt(potContribution),
		TotalAmount:     decimal.NewFromInt(totalAmount),
		EndDate:         endDate,
	}
	if err := f.db.Save(context.Background(), cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}
}
