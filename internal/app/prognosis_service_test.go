package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weightbattle/internal/domain"
)

func TestTrendFor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	papa := f.mustUser(t, "Papa", 100)
	mama := f.mustUser(t, "Mama", 80)
	lisa := f.mustUser(t, "Lisa", 65)

	f.mustWeighIn(t, papa.ID, weekOne, 99)
	f.mustWeighIn(t, papa.ID, weekTwo, 98)
	f.mustWeighIn(t, mama.ID, weekOne, 81)

	trend, err := f.prognosis.TrendFor(ctx, papa.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TrendLosing, trend)

	trend, err = f.prognosis.TrendFor(ctx, mama.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TrendGaining, trend)

	// The start weight is the first point, so no weigh-in means one point only.
	trend, err = f.prognosis.TrendFor(ctx, lisa.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TrendInsufficient, trend)
}

func TestProject(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	papa := f.mustUser(t, "Papa", 100)
	f.mustUser(t, "Lisa", 65) // no data

	f.mustWeighIn(t, papa.ID, weekOne, 99)
	f.mustWeighIn(t, papa.ID, weekTwo, 98)

	// Three whole weeks remain.
	now := time.Date(2026, 8, 17, 12, 0, 0, 0, time.UTC)
	f.mustConfig(t, 5, 100, "2026-09-07")

	prognosis, err := f.prognosis.Project(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 3, prognosis.WeeksRemaining)
	require.Len(t, prognosis.Rows, 2)

	// Papa's line is exactly -1 kg/week through (0,100), evaluated at week 5.
	row := prognosis.Rows[0]
	assert.Equal(t, papa.ID, row.UserID)
	require.NotNil(t, row.ProjectedWeight)
	assert.InDelta(t, 95.0, *row.ProjectedWeight, 1e-9)
	require.NotNil(t, row.ProjectedTotalChange)
	assert.InDelta(t, 5.0, *row.ProjectedTotalChange, 1e-9)
	require.NotNil(t, row.WeeklyTrend)
	assert.InDelta(t, -1.0, *row.WeeklyTrend, 1e-9)
	assert.Equal(t, domain.TrendLosing, row.Trend)

	// Lisa has a single point; she sorts last with nil projections.
	last := prognosis.Rows[1]
	assert.Equal(t, "Lisa", last.Name)
	assert.Nil(t, last.ProjectedWeight)
	assert.Equal(t, domain.TrendInsufficient, last.Trend)
	assert.Equal(t, 65.0, last.CurrentWeight)
}

func TestProject_NoClamping(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	papa := f.mustUser(t, "Papa", 50)
	mama := f.mustUser(t, "Mama", 80)

	// An absurd 10 kg/week loss projects straight through zero.
	f.mustWeighIn(t, papa.ID, weekOne, 40)
	f.mustWeighIn(t, papa.ID, weekTwo, 30)
	f.mustWeighIn(t, mama.ID, weekOne, 79)
	f.mustWeighIn(t, mama.ID, weekTwo, 78)

	now := time.Date(2026, 8, 17, 12, 0, 0, 0, time.UTC)
	f.mustConfig(t, 5, 100, "2026-10-12") // eight weeks out

	prognosis, err := f.prognosis.Project(ctx, now)
	require.NoError(t, err)

	var papaRow *float64
	for _, row := range prognosis.Rows {
		if row.UserID == papa.ID {
			papaRow = row.ProjectedWeight
		}
	}
	require.NotNil(t, papaRow)
	assert.InDelta(t, -50.0, *papaRow, 1e-9, "projection is not clamped to a floor")
}

func TestWeeksRemaining_PastEndDate(t *testing.T) {
	f := newFixture()
	f.mustConfig(t, 5, 100, "2026-01-05")

	now := time.Date(2026, 8, 17, 12, 0, 0, 0, time.UTC)
	weeks, err := f.prognosis.WeeksRemaining(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, weeks)
}
