// Package domain contains the core business entities, computation kernels
// and repository ports of the weight battle.
package domain

import (
	"context"
	"time"
)

// Plausible weight range in kg. Values outside are rejected as typos.
const (
	MinWeightKg = 30.0
	MaxWeightKg = 300.0
)

// User is a battle participant. Identity is immutable once created; name and
// start weight may be corrected via audit-logged edits.
type User struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	StartWeight float64   `json:"startWeight"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserRepository is the port for participant persistence.
type UserRepository interface {
	Create(ctx context.Context, name string, startWeight float64) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Update(ctx context.Context, id int64, name string, startWeight float64) (*User, error)
	// List returns all participants ordered by name.
	List(ctx context.Context) ([]User, error)
	Count(ctx context.Context) (int, error)
}

// ValidateWeight rejects non-positive or implausible weight values.
func ValidateWeight(kg float64) error {
	if kg <= MinWeightKg || kg >= MaxWeightKg {
		return ErrInvalidWeight
	}
	return nil
}
