package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"weightbattle/internal/domain"
)

// WeighInService records weekly weigh-ins with upsert semantics, keeps the
// audit trail and triggers pot re-resolution for affected weeks.
type WeighInService struct {
	users    domain.UserRepository
	weighIns domain.WeighInRepository
	audit    domain.AuditRepository
	pot      *PotService
	scoring  *ScoringService

	// Serializes concurrent writes per (user, week) so a write never
	// observes a half-applied prior one. Cross-key writes stay independent.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewWeighInService creates a WeighInService backed by the given collaborators.
func NewWeighInService(users domain.UserRepository, weighIns domain.WeighInRepository, audit domain.AuditRepository, pot *PotService, scoring *ScoringService) *WeighInService {
	return &WeighInService{
		users:    users,
		weighIns: weighIns,
		audit:    audit,
		pot:      pot,
		scoring:  scoring,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *WeighInService) keyLock(userID int64, weekStart string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("%d/%s", userID, weekStart)
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// RecordResult is returned after a weigh-in write, including the values the
// UI shows right away.
type RecordResult struct {
	WeighIn        *domain.WeighIn `json:"weighIn"`
	PreviousWeight float64         `json:"previousWeight"`
	PercentChange  float64         `json:"percentChange"`
}

// Record validates and upserts a weigh-in. An empty weekStart means the
// current week; any other date is normalised to its Monday. The affected
// week and the one after it are re-resolved against the pot, so a corrected
// value never leaves a stale contribution behind.
func (s *WeighInService) Record(ctx context.Context, userID int64, weight float64, weekStart, actor string) (*RecordResult, error) {
	if err := domain.ValidateWeight(weight); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if weekStart == "" {
		weekStart = domain.WeekStartOf(time.Now())
	} else {
		day, err := domain.ParseDate(weekStart)
		if err != nil {
			return nil, err
		}
		weekStart = domain.WeekStartOf(day)
	}

	lock := s.keyLock(userID, weekStart)
	lock.Lock()
	stored, replaced, err := s.weighIns.Upsert(ctx, userID, weekStart, weight, time.Now().UTC())
	lock.Unlock()
	if err != nil {
		return nil, err
	}

	if err := s.logWeighIn(ctx, stored, replaced, actor); err != nil {
		return nil, err
	}
	if err := s.resolveAround(ctx, weekStart); err != nil {
		return nil, err
	}

	ref, err := s.scoring.ReferenceWeight(ctx, user, weekStart)
	if err != nil {
		return nil, err
	}
	return &RecordResult{
		WeighIn:        stored,
		PreviousWeight: ref,
		PercentChange:  domain.Round2(domain.PercentChange(ref, weight)),
	}, nil
}

// PreviewResult shows what a pending weigh-in would score, without persisting.
type PreviewResult struct {
	UserID         int64   `json:"userId"`
	Weight         float64 `json:"weight"`
	PreviousWeight float64 `json:"previousWeight"`
	PercentChange  float64 `json:"percentChange"`
}

// Preview computes the percent change a weigh-in for the current week would
// produce. Nothing is written.
func (s *WeighInService) Preview(ctx context.Context, userID int64, weight float64, now time.Time) (*PreviewResult, error) {
	if err := domain.ValidateWeight(weight); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	ref, err := s.scoring.ReferenceWeight(ctx, user, domain.WeekStartOf(now))
	if err != nil {
		return nil, err
	}
	return &PreviewResult{
		UserID:         userID,
		Weight:         weight,
		PreviousWeight: ref,
		PercentChange:  domain.Round2(domain.PercentChange(ref, weight)),
	}, nil
}

// ListForUser returns a user's full weigh-in history, oldest first.
func (s *WeighInService) ListForUser(ctx context.Context, userID int64) ([]domain.WeighIn, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.weighIns.ListByUser(ctx, userID)
}

// A changed weight shifts this week's outcome and the next week's reference
// weight, so both weeks are re-resolved.
func (s *WeighInService) resolveAround(ctx context.Context, weekStart string) error {
	if err := s.pot.RecordLoss(ctx, weekStart); err != nil {
		return err
	}
	day, err := domain.ParseDate(weekStart)
	if err != nil {
		return err
	}
	nextWeek := day.AddDate(0, 0, 7).Format(domain.DateLayout)
	next, err := s.weighIns.ListByWeek(ctx, nextWeek)
	if err != nil {
		return err
	}
	if len(next) == 0 {
		return nil
	}
	return s.pot.RecordLoss(ctx, nextWeek)
}

func (s *WeighInService) logWeighIn(ctx context.Context, stored, replaced *domain.WeighIn, actor string) error {
	var oldValue json.RawMessage
	if replaced != nil {
		oldValue, _ = json.Marshal(map[string]any{"weight": replaced.Weight})
	}
	newValue, _ := json.Marshal(map[string]any{
		"userId":    stored.UserID,
		"weekStart": stored.WeekStart,
		"weight":    stored.Weight,
	})
	return s.audit.Append(ctx, domain.AuditEntry{
		ID:        uuid.NewString(),
		Entity:    "weigh_in",
		EntityID:  stored.ID,
		OldValue:  oldValue,
		NewValue:  newValue,
		ChangedBy: actor,
		ChangedAt: time.Now().UTC(),
	})
}
