package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PotContribution is one week's penalty payment into the shared pot.
// At most one contribution exists per week.
type PotContribution struct {
	WeekStart string          `json:"weekStart"`
	UserID    int64           `json:"userId"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
}

// PotRepository is the port for pot persistence. The week start is the unique
// key, which makes recomputation of an already-resolved week idempotent.
type PotRepository interface {
	Upsert(ctx context.Context, weekStart string, userID int64, amount decimal.Decimal, createdAt time.Time) error
	Delete(ctx context.Context, weekStart string) error
	// List returns all contributions ordered by week descending.
	List(ctx context.Context) ([]PotContribution, error)
}
