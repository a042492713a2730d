package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"weightbattle/internal/domain"
)

const (
	cfgPotContribution = "pot_contribution"
	cfgTotalAmount     = "total_amount"
	cfgEndDate         = "battle_end_date"
	cfgSetupComplete   = "setup_complete"
)

// Load returns the stored configuration, or ErrConfigMissing before setup.
func (d *DB) Load(ctx context.Context) (*domain.CompetitionConfig, error) {
	pot, err := d.configValue(ctx, cfgPotContribution)
	if err != nil {
		return nil, err
	}
	total, err := d.configValue(ctx, cfgTotalAmount)
	if err != nil {
		return nil, err
	}
	end, err := d.configValue(ctx, cfgEndDate)
	if err != nil {
		return nil, err
	}
	if pot == "" || total == "" || end == "" {
		return nil, domain.ErrConfigMissing
	}

	potDec, err := decimal.NewFromString(pot)
	if err != nil {
		return nil, err
	}
	totalDec, err := decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	return &domain.CompetitionConfig{
		PotContribution: potDec,
		TotalAmount:     totalDec,
		EndDate:         end,
	}, nil
}

// Save stores the configuration.
func (d *DB) Save(ctx context.Context, cfg domain.CompetitionConfig) error {
	pairs := map[string]string{
		cfgPotContribution: cfg.PotContribution.String(),
		cfgTotalAmount:     cfg.TotalAmount.String(),
		cfgEndDate:         cfg.EndDate,
	}
	for key, value := range pairs {
		if err := d.setConfig(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}

// SetupComplete reports whether setup has been marked done.
func (d *DB) SetupComplete(ctx context.Context) (bool, error) {
	v, err := d.configValue(ctx, cfgSetupComplete)
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

// MarkSetupComplete flags setup as done.
func (d *DB) MarkSetupComplete(ctx context.Context) error {
	return d.setConfig(ctx, cfgSetupComplete, "true")
}

func (d *DB) configValue(ctx context.Context, key string) (string, error) {
	var value string
	err := d.sql.QueryRowContext(ctx, "SELECT value FROM config WHERE key=$1;", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

func (d *DB) setConfig(ctx context.Context, key, value string) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO config(key, value) VALUES($1, $2) ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value;",
		key, value)
	return err
}
