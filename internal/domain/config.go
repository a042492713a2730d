package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// CompetitionConfig holds the battle-wide settings. Set once during setup,
// editable afterwards; derived computations always re-read the current value.
type CompetitionConfig struct {
	PotContribution decimal.Decimal `json:"potContribution"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	EndDate         string          `json:"endDate"`
}

// ConfigRepository is the port for competition configuration.
type ConfigRepository interface {
	// Load returns the current configuration, or ErrConfigMissing before setup.
	Load(ctx context.Context) (*CompetitionConfig, error)
	Save(ctx context.Context, cfg CompetitionConfig) error
	SetupComplete(ctx context.Context) (bool, error)
	MarkSetupComplete(ctx context.Context) error
}
