package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"weightbattle/internal/domain"
)

// SetupService handles the one-time battle setup and later config edits.
type SetupService struct {
	users    domain.UserRepository
	config   domain.ConfigRepository
	audit    domain.AuditRepository
	weighIns *WeighInService
}

// NewSetupService creates a SetupService backed by the given collaborators.
func NewSetupService(users domain.UserRepository, config domain.ConfigRepository, audit domain.AuditRepository, weighIns *WeighInService) *SetupService {
	return &SetupService{users: users, config: config, audit: audit, weighIns: weighIns}
}

// Status reports whether the initial setup has been completed.
type Status struct {
	SetupComplete bool `json:"setupComplete"`
	HasUsers      bool `json:"hasUsers"`
	HasConfig     bool `json:"hasConfig"`
}

// Status returns the current setup state.
func (s *SetupService) Status(ctx context.Context) (*Status, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	complete, err := s.config.SetupComplete(ctx)
	if err != nil {
		return nil, err
	}
	hasConfig := true
	if _, err := s.config.Load(ctx); err != nil {
		if err != domain.ErrConfigMissing {
			return nil, err
		}
		hasConfig = false
	}
	return &Status{
		SetupComplete: complete && count > 0,
		HasUsers:      count > 0,
		HasConfig:     hasConfig,
	}, nil
}

// Participant is one entry of the initial setup request.
type Participant struct {
	Name        string  `json:"name"`
	StartWeight float64 `json:"startWeight"`
}

// Complete runs the one-time setup: store the config, create all
// participants and mark the battle started.
func (s *SetupService) Complete(ctx context.Context, participants []Participant, cfg domain.CompetitionConfig, actor string) ([]domain.User, error) {
	if _, err := domain.ParseDate(cfg.EndDate); err != nil {
		return nil, err
	}
	complete, err := s.config.SetupComplete(ctx)
	if err != nil {
		return nil, err
	}
	if complete {
		return nil, domain.ErrSetupComplete
	}

	if err := s.saveConfig(ctx, nil, cfg, actor); err != nil {
		return nil, err
	}

	created := make([]domain.User, 0, len(participants))
	for _, p := range participants {
		if err := domain.ValidateWeight(p.StartWeight); err != nil {
			return nil, err
		}
		user, err := s.users.Create(ctx, p.Name, p.StartWeight)
		if err != nil {
			return nil, err
		}
		created = append(created, *user)
	}

	if err := s.config.MarkSetupComplete(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// Config returns the current competition configuration.
func (s *SetupService) Config(ctx context.Context) (*domain.CompetitionConfig, error) {
	return s.config.Load(ctx)
}

// ConfigUpdate carries a partial config edit. Nil fields keep their value.
type ConfigUpdate struct {
	PotContribution *decimal.Decimal `json:"potContribution"`
	TotalAmount     *decimal.Decimal `json:"totalAmount"`
	EndDate         *string          `json:"endDate"`
}

// UpdateConfig applies a partial edit to the stored configuration. Derived
// computations pick up the new values on their next read.
func (s *SetupService) UpdateConfig(ctx context.Context, update ConfigUpdate, actor string) (*domain.CompetitionConfig, error) {
	current, err := s.config.Load(ctx)
	if err != nil {
		return nil, err
	}
	next := *current
	if update.PotContribution != nil {
		next.PotContribution = *update.PotContribution
	}
	if update.TotalAmount != nil {
		next.TotalAmount = *update.TotalAmount
	}
	if update.EndDate != nil {
		if _, err := domain.ParseDate(*update.EndDate); err != nil {
			return nil, err
		}
		next.EndDate = *update.EndDate
	}
	if err := s.saveConfig(ctx, current, next, actor); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *SetupService) saveConfig(ctx context.Context, old *domain.CompetitionConfig, next domain.CompetitionConfig, actor string) error {
	if err := s.config.Save(ctx, next); err != nil {
		return err
	}
	var oldValue json.RawMessage
	if old != nil {
		oldValue, _ = json.Marshal(old)
	}
	newValue, _ := json.Marshal(next)
	return s.audit.Append(ctx, domain.AuditEntry{
		ID:        uuid.NewString(),
		Entity:    "config",
		EntityID:  0,
		OldValue:  oldValue,
		NewValue:  newValue,
		ChangedBy: actor,
		ChangedAt: time.Now().UTC(),
	})
}

// demoParticipant drives LoadDemo: a start weight plus eight weekly deltas.
type demoParticipant struct {
	name   string
	start  float64
	deltas []float64
}

var demoParticipants = []demoParticipant{
	{"Papa", 98.5, []float64{-0.8, -0.5, -0.3, +0.2, -0.6, -0.4, -0.7, -0.5}},
	{"Mama", 72.3, []float64{-0.4, -0.3, -0.5, -0.2, -0.4, -0.3, -0.2, -0.4}},
	{"Max", 88.0, []float64{-1.0, -0.8, +0.5, -0.6, -0.9, +0.3, -0.7, -0.8}},
	{"Lisa", 65.8, []float64{-0.3, -0.4, -0.2, -0.3, -0.5, -0.3, -0.4, -0.3}},
}

// LoadDemo seeds a complete eight-week demo battle. Refuses to run once
// setup has completed.
func (s *SetupService) LoadDemo(ctx context.Context, now time.Time) error {
	complete, err := s.config.SetupComplete(ctx)
	if err != nil {
		return err
	}
	if complete {
		return domain.ErrSetupComplete
	}

	cfg := domain.CompetitionConfig{
		PotContribution: decimal.NewFromInt(5),
		TotalAmount:     decimal.NewFromInt(100),
		EndDate:         domain.WeekStartOf(now.AddDate(0, 0, 8*7)),
	}
	if err := s.saveConfig(ctx, nil, cfg, "demo"); err != nil {
		return err
	}

	users := make([]*domain.User, len(demoParticipants))
	for i, p := range demoParticipants {
		user, err := s.users.Create(ctx, p.name, p.start)
		if err != nil {
			return err
		}
		users[i] = user
	}

	firstWeek, err := domain.ParseDate(domain.WeekStartOf(now.AddDate(0, 0, -8*7)))
	if err != nil {
		return err
	}
	for week := 0; week < 8; week++ {
		weekStart := firstWeek.AddDate(0, 0, week*7).Format(domain.DateLayout)
		for i, p := range demoParticipants {
			weight := p.start
			for _, delta := range p.deltas[:week+1] {
				weight += delta
			}
			if _, err := s.weighIns.Record(ctx, users[i].ID, weight, weekStart, "demo"); err != nil {
				return err
			}
		}
	}

	return s.config.MarkSetupComplete(ctx)
}
