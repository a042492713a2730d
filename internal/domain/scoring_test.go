package domain_test

import (
	"math"
	"testing"

	"weightbattle/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name     string
		prev     float64
		current  float64
		want     float64
	}{
		{"one percent lost", 100, 99, 1},
		{"one percent gained", 100, 101, -1},
		{"no change", 80, 80, 0},
		{"heavier base smaller percent", 80, 79.2, 1},
		{"zero previous guards division", 0, 75, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.PercentChange(tc.prev, tc.current)
			if !almostEqual(got, tc.want) {
				t.Errorf("PercentChange(%v, %v) = %v; want %v", tc.prev, tc.current, got, tc.want)
			}
		})
	}
}

func TestRankChanges(t *testing.T) {
	changes := []domain.WeekChange{
		{UserID: 1, Name: "Papa", PercentChange: 0.5},
		{UserID: 2, Name: "Mama", PercentChange: 1.2},
		{UserID: 3, Name: "Max", PercentChange: 0.5},
	}
	ranked := domain.RankChanges(changes)

	wantOrder := []int64{2, 3, 1} // best first, equal changes by name
	for i, want := range wantOrder {
		if ranked[i].UserID != want {
			t.Fatalf("rank %d = user %d; want %d", i, ranked[i].UserID, want)
		}
	}
	// Input must stay untouched.
	if changes[0].UserID != 1 {
		t.Error("RankChanges mutated its input")
	}
}

func TestResolveWeek(t *testing.T) {
	tests := []struct {
		name       string
		ranked     []domain.WeekChange
		wantWinner int64
		wantLoser  int64
	}{
		{
			name:   "empty week",
			ranked: nil,
		},
		{
			name:   "single participant is no competition",
			ranked: []domain.WeekChange{{UserID: 1, PercentChange: 2}},
		},
		{
			name: "clear winner and loser",
			ranked: []domain.WeekChange{
				{UserID: 1, PercentChange: 1.5},
				{UserID: 2, PercentChange: 0.8},
				{UserID: 3, PercentChange: -0.2},
			},
			wantWinner: 1,
			wantLoser:  3,
		},
		{
			name: "tie at the top leaves winner unassigned",
			ranked: []domain.WeekChange{
				{UserID: 1, PercentChange: 1.5},
				{UserID: 2, PercentChange: 1.495},
				{UserID: 3, PercentChange: -0.2},
			},
			wantLoser: 3,
		},
		{
			name: "tie at the bottom leaves loser unassigned",
			ranked: []domain.WeekChange{
				{UserID: 1, PercentChange: 1.5},
				{UserID: 2, PercentChange: 0.1},
				{UserID: 3, PercentChange: 0.095},
			},
			wantWinner: 1,
		},
		{
			name: "two participants tied both ways",
			ranked: []domain.WeekChange{
				{UserID: 1, PercentChange: 1.0},
				{UserID: 2, PercentChange: 1.0},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.ResolveWeek(tc.ranked)
			if got.WinnerID != tc.wantWinner {
				t.Errorf("WinnerID = %d; want %d", got.WinnerID, tc.wantWinner)
			}
			if got.LoserID != tc.wantLoser {
				t.Errorf("LoserID = %d; want %d", got.LoserID, tc.wantLoser)
			}
		})
	}
}

// Two users across two weeks: the second week's change is measured against
// the first week's weigh-in, not the start weight.
func TestPercentChange_AgainstPreviousWeek(t *testing.T) {
	// A starts at 100, weighs 99 then 98; B starts at 80, weighs 79.5 then 79.
	weekOne := domain.ResolveWeek(domain.RankChanges([]domain.WeekChange{
		{UserID: 1, Name: "A", PercentChange: domain.PercentChange(100, 99)},   // 1.00%
		{UserID: 2, Name: "B", PercentChange: domain.PercentChange(80, 79.5)},  // 0.625%
	}))
	if weekOne.WinnerID != 1 || weekOne.LoserID != 2 {
		t.Fatalf("week one outcome = %+v; want winner 1, loser 2", weekOne)
	}

	weekTwo := domain.ResolveWeek(domain.RankChanges([]domain.WeekChange{
		{UserID: 1, Name: "A", PercentChange: domain.PercentChange(99, 98)},   // ~1.01%
		{UserID: 2, Name: "B", PercentChange: domain.PercentChange(79.5, 79)}, // ~0.63%
	}))
	if weekTwo.WinnerID != 1 || weekTwo.LoserID != 2 {
		t.Fatalf("week two outcome = %+v; want winner 1, loser 2", weekTwo)
	}
}

func TestRound2(t *testing.T) {
	if got := domain.Round2(1.234); !almostEqual(got, 1.23) {
		t.Errorf("Round2(1.234) = %v; want 1.23", got)
	}
	if got := domain.Round2(-1.236); !almostEqual(got, -1.24) {
		t.Errorf("Round2(-1.236) = %v; want -1.24", got)
	}
}
