package domain

import (
	"context"
	"time"
)

// WeighIn is the canonical weight measurement for one (user, week) pair.
// Resubmitting for the same pair replaces the prior value.
type WeighIn struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	WeekStart string    `json:"weekStart"`
	Weight    float64   `json:"weight"`
	CreatedAt time.Time `json:"createdAt"`
}

// WeighInRepository is the port for weigh-in persistence.
type WeighInRepository interface {
	// Upsert writes the weigh-in for (userID, weekStart), replacing any prior
	// value. It returns the stored record and the replaced one (nil if this
	// was the first write for the pair).
	Upsert(ctx context.Context, userID int64, weekStart string, weight float64, createdAt time.Time) (*WeighIn, *WeighIn, error)
	// Get returns the weigh-in for (userID, weekStart), or nil if none.
	Get(ctx context.Context, userID int64, weekStart string) (*WeighIn, error)
	// ListByUser returns a user's weigh-ins ordered by week ascending.
	ListByUser(ctx context.Context, userID int64) ([]WeighIn, error)
	// ListByWeek returns all weigh-ins recorded for the given week.
	ListByWeek(ctx context.Context, weekStart string) ([]WeighIn, error)
	// Weeks returns every distinct week start with at least one weigh-in,
	// ascending.
	Weeks(ctx context.Context) ([]string, error)
}
