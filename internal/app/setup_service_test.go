package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weightbattle/internal/app"
	"weightbattle/internal/domain"
)

func TestSetupComplete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	status, err := f.setup.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.SetupComplete)
	assert.False(t, status.HasUsers)
	assert.False(t, status.HasConfig)

	cfg := domain.CompetitionConfig{
		PotContribution: decimal.NewFromInt(5),
		TotalAmount:     decimal.NewFromInt(100),
		EndDate:         "2026-12-28",
	}
	participants := []app.Participant{
		{Name: "Papa", StartWeight: 98.5},
		{Name: "Mama", StartWeight: 72.3},
	}
	created, err := f.setup.Complete(ctx, participants, cfg, "setup")
	require.NoError(t, err)
	require.Len(t, created, 2)

	status, err = f.setup.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.SetupComplete)
	assert.True(t, status.HasUsers)
	assert.True(t, status.HasConfig)

	// Setup is one-time.
	_, err = f.setup.Complete(ctx, participants, cfg, "setup")
	assert.ErrorIs(t, err, domain.ErrSetupComplete)
}

func TestSetupComplete_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cfg := domain.CompetitionConfig{
		PotContribution: decimal.NewFromInt(5),
		TotalAmount:     decimal.NewFromInt(100),
		EndDate:         "not-a-date",
	}
	_, err := f.setup.Complete(ctx, []app.Participant{{Name: "Papa", StartWeight: 98.5}}, cfg, "setup")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	cfg.EndDate = "2026-12-28"
	_, err = f.setup.Complete(ctx, []app.Participant{{Name: "Papa", StartWeight: 10}}, cfg, "setup")
	assert.ErrorIs(t, err, domain.ErrInvalidWeight)
}

func TestUpdateConfig_PartialEdit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.mustConfig(t, 5, 100, "2026-12-28")

	newPot := decimal.NewFromInt(10)
	cfg, err := f.setup.UpdateConfig(ctx, app.ConfigUpdate{PotContribution: &newPot}, "api")
	require.NoError(t, err)
	assert.True(t, cfg.PotContribution.Equal(newPot))
	assert.True(t, cfg.TotalAmount.Equal(decimal.NewFromInt(100)), "untouched fields keep their value")
	assert.Equal(t, "2026-12-28", cfg.EndDate)

	badDate := "soon"
	_, err = f.setup.UpdateConfig(ctx, app.ConfigUpdate{EndDate: &badDate}, "api")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestUpdateConfig_RequiresSetup(t *testing.T) {
	f := newFixture()
	newPot := decimal.NewFromInt(10)
	_, err := f.setup.UpdateConfig(context.Background(), app.ConfigUpdate{PotContribution: &newPot}, "api")
	assert.ErrorIs(t, err, domain.ErrConfigMissing)
}

func TestLoadDemo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	require.NoError(t, f.setup.LoadDemo(ctx, now))

	users, err := f.db.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 4)

	weeks, err := f.db.Weeks(ctx)
	require.NoError(t, err)
	assert.Len(t, weeks, 8)

	// Every demo week has a full set of weigh-ins, so every week resolved.
	contributions, err := f.potRepo.List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, contributions)

	status, err := f.setup.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.SetupComplete)

	assert.ErrorIs(t, f.setup.LoadDemo(ctx, now), domain.ErrSetupComplete)
}
