package domain

import (
	"math"
	"sort"
)

// TieEpsilon is the margin in percentage points below which two changes at a
// weekly extreme count as a tie, yielding no winner or loser for that role.
const TieEpsilon = 0.01

// PercentChange returns the percentage weight change from previous to
// current. Positive means weight was lost.
func PercentChange(previous, current float64) float64 {
	if previous == 0 {
		return 0
	}
	return (previous - current) / previous * 100
}

// Round2 rounds to two decimal places. Applied only at presentation time;
// internal computation keeps full precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// WeekChange is one user's result within a single week.
type WeekChange struct {
	UserID        int64
	Name          string
	Weight        float64
	PercentChange float64
}

// RankChanges sorts a week's changes best first, ties broken by name so the
// ordering is deterministic.
func RankChanges(changes []WeekChange) []WeekChange {
	ranked := make([]WeekChange, len(changes))
	copy(ranked, changes)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].PercentChange != ranked[j].PercentChange {
			return ranked[i].PercentChange > ranked[j].PercentChange
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked
}

// WeekOutcome names the winner and loser of a week. A zero ID means no user
// holds that role.
type WeekOutcome struct {
	WinnerID int64
	LoserID  int64
}

// ResolveWeek determines the weekly winner and loser from ranked changes.
// Comparison needs at least two participants with data; a tie within
// TieEpsilon at either extreme leaves that role unassigned.
func ResolveWeek(ranked []WeekChange) WeekOutcome {
	if len(ranked) < 2 {
		return WeekOutcome{}
	}
	var out WeekOutcome
	n := len(ranked)
	if ranked[0].PercentChange-ranked[1].PercentChange >= TieEpsilon {
		out.WinnerID = ranked[0].UserID
	}
	if ranked[n-2].PercentChange-ranked[n-1].PercentChange >= TieEpsilon {
		out.LoserID = ranked[n-1].UserID
	}
	return out
}
