package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"weightbattle/internal/domain"
)

// UserService manages participants with audit-logged writes.
type UserService struct {
	users domain.UserRepository
	audit domain.AuditRepository
}

// NewUserService creates a UserService backed by the given repositories.
func NewUserService(users domain.UserRepository, audit domain.AuditRepository) *UserService {
	return &UserService{users: users, audit: audit}
}

// Create adds a participant with their start weight.
func (s *UserService) Create(ctx context.Context, name string, startWeight float64, actor string) (*domain.User, error) {
	if err := domain.ValidateWeight(startWeight); err != nil {
		return nil, err
	}
	user, err := s.users.Create(ctx, name, startWeight)
	if err != nil {
		return nil, err
	}
	if err := s.logChange(ctx, user.ID, nil, user, actor); err != nil {
		return nil, err
	}
	return user, nil
}

// Update corrects a participant's name and/or start weight. Nil fields keep
// the current value.
func (s *UserService) Update(ctx context.Context, id int64, name *string, startWeight *float64, actor string) (*domain.User, error) {
	current, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	newName, newWeight := current.Name, current.StartWeight
	if name != nil {
		newName = *name
	}
	if startWeight != nil {
		newWeight = *startWeight
	}
	if err := domain.ValidateWeight(newWeight); err != nil {
		return nil, err
	}
	updated, err := s.users.Update(ctx, id, newName, newWeight)
	if err != nil {
		return nil, err
	}
	if err := s.logChange(ctx, id, current, updated, actor); err != nil {
		return nil, err
	}
	return updated, nil
}

// Get returns a single participant.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// List returns all participants ordered by name.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) logChange(ctx context.Context, id int64, oldUser, newUser *domain.User, actor string) error {
	var oldValue, newValue json.RawMessage
	if oldUser != nil {
		oldValue, _ = json.Marshal(map[string]any{"name": oldUser.Name, "startWeight": oldUser.StartWeight})
	}
	if newUser != nil {
		newValue, _ = json.Marshal(map[string]any{"name": newUser.Name, "startWeight": newUser.StartWeight})
	}
	return s.audit.Append(ctx, domain.AuditEntry{
		ID:        uuid.NewString(),
		Entity:    "user",
		EntityID:  id,
		OldValue:  oldValue,
		NewValue:  newValue,
		ChangedBy: actor,
		ChangedAt: time.Now().UTC(),
	})
}
