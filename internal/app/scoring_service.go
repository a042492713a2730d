package app

import (
	"context"
	"sort"

	"weightbattle/internal/domain"
)

// ScoringService computes per-week percent changes, weekly winners and
// losers, cumulative stats and the leaderboard. It is a pure reader over the
// user and weigh-in ports.
type ScoringService struct {
	users    domain.UserRepository
	weighIns domain.WeighInRepository
}

// NewScoringService creates a ScoringService backed by the given repositories.
func NewScoringService(users domain.UserRepository, weighIns domain.WeighInRepository) *ScoringService {
	return &ScoringService{users: users, weighIns: weighIns}
}

// ReferenceWeight returns the weight a week's change is measured against:
// the previous week's weigh-in if present, otherwise the user's start weight.
func (s *ScoringService) ReferenceWeight(ctx context.Context, user *domain.User, weekStart string) (float64, error) {
	prevWeek, err := domain.PrevWeekStart(weekStart)
	if err != nil {
		return 0, err
	}
	wi, err := s.weighIns.Get(ctx, user.ID, prevWeek)
	if err != nil {
		return 0, err
	}
	if wi != nil {
		return wi.Weight, nil
	}
	return user.StartWeight, nil
}

// WeekChanges computes the percent change for every user with a weigh-in in
// the given week, ranked best first.
func (s *ScoringService) WeekChanges(ctx context.Context, weekStart string) ([]domain.WeekChange, error) {
	byID, err := s.usersByID(ctx)
	if err != nil {
		return nil, err
	}
	weighIns, err := s.weighIns.ListByWeek(ctx, weekStart)
	if err != nil {
		return nil, err
	}

	changes := make([]domain.WeekChange, 0, len(weighIns))
	for _, wi := range weighIns {
		user, ok := byID[wi.UserID]
		if !ok {
			continue
		}
		ref, err := s.ReferenceWeight(ctx, user, weekStart)
		if err != nil {
			return nil, err
		}
		changes = append(changes, domain.WeekChange{
			UserID:        wi.UserID,
			Name:          user.Name,
			Weight:        wi.Weight,
			PercentChange: domain.PercentChange(ref, wi.Weight),
		})
	}
	return domain.RankChanges(changes), nil
}

// WeekOutcome resolves the winner and loser of a week together with the
// ranked changes the decision was based on.
func (s *ScoringService) WeekOutcome(ctx context.Context, weekStart string) (domain.WeekOutcome, []domain.WeekChange, error) {
	ranked, err := s.WeekChanges(ctx, weekStart)
	if err != nil {
		return domain.WeekOutcome{}, nil, err
	}
	return domain.ResolveWeek(ranked), ranked, nil
}

// OutcomesByWeek resolves every week with weigh-in data.
func (s *ScoringService) OutcomesByWeek(ctx context.Context) (map[string]domain.WeekOutcome, error) {
	weeks, err := s.weighIns.Weeks(ctx)
	if err != nil {
		return nil, err
	}
	outcomes := make(map[string]domain.WeekOutcome, len(weeks))
	for _, week := range weeks {
		outcome, _, err := s.WeekOutcome(ctx, week)
		if err != nil {
			return nil, err
		}
		outcomes[week] = outcome
	}
	return outcomes, nil
}

// CumulativeStats are a user's totals across the whole battle.
type CumulativeStats struct {
	Wins               int      `json:"wins"`
	Losses             int      `json:"losses"`
	CurrentWeight      float64  `json:"currentWeight"`
	TotalPercentChange *float64 `json:"totalPercentChange"`
}

// CumulativeStatsFor computes a user's win/loss counts and total percent
// change from start weight to the latest weigh-in. TotalPercentChange is nil
// for users without any weigh-in.
func (s *ScoringService) CumulativeStatsFor(ctx context.Context, userID int64) (*CumulativeStats, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	outcomes, err := s.OutcomesByWeek(ctx)
	if err != nil {
		return nil, err
	}
	history, err := s.weighIns.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.cumulative(user, history, outcomes), nil
}

func (s *ScoringService) cumulative(user *domain.User, history []domain.WeighIn, outcomes map[string]domain.WeekOutcome) *CumulativeStats {
	cs := &CumulativeStats{CurrentWeight: user.StartWeight}
	for _, outcome := range outcomes {
		if outcome.WinnerID == user.ID {
			cs.Wins++
		}
		if outcome.LoserID == user.ID {
			cs.Losses++
		}
	}
	if len(history) > 0 {
		cs.CurrentWeight = history[len(history)-1].Weight
		change := domain.Round2(domain.PercentChange(user.StartWeight, cs.CurrentWeight))
		cs.TotalPercentChange = &change
	}
	return cs
}

// LeaderboardRow is one ranked entry of the leaderboard view.
type LeaderboardRow struct {
	Rank               int      `json:"rank"`
	UserID             int64    `json:"userId"`
	Name               string   `json:"name"`
	Wins               int      `json:"wins"`
	Losses             int      `json:"losses"`
	StartWeight        float64  `json:"startWeight"`
	CurrentWeight      float64  `json:"currentWeight"`
	TotalPercentChange *float64 `json:"totalPercentChange"`
}

// Leaderboard ranks all users by win count descending, ties broken by total
// percent change descending and then by name ascending. Users without any
// weigh-in still appear, with zero wins and a nil percent change.
func (s *ScoringService) Leaderboard(ctx context.Context) ([]LeaderboardRow, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	outcomes, err := s.OutcomesByWeek(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]LeaderboardRow, 0, len(users))
	for i := range users {
		user := &users[i]
		history, err := s.weighIns.ListByUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		cs := s.cumulative(user, history, outcomes)
		rows = append(rows, LeaderboardRow{
			UserID:             user.ID,
			Name:               user.Name,
			Wins:               cs.Wins,
			Losses:             cs.Losses,
			StartWeight:        user.StartWeight,
			CurrentWeight:      cs.CurrentWeight,
			TotalPercentChange: cs.TotalPercentChange,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Wins != rows[j].Wins {
			return rows[i].Wins > rows[j].Wins
		}
		ci, cj := leaderboardChange(rows[i]), leaderboardChange(rows[j])
		if ci != cj {
			return ci > cj
		}
		return rows[i].Name < rows[j].Name
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

// Users without data sort below any real percent change.
func leaderboardChange(r LeaderboardRow) float64 {
	if r.TotalPercentChange == nil {
		return -999
	}
	return *r.TotalPercentChange
}

// ComparisonRow is one user's entry in the side-by-side week view.
type ComparisonRow struct {
	UserID        int64    `json:"userId"`
	Name          string   `json:"name"`
	Weight        *float64 `json:"weight"`
	PercentChange *float64 `json:"percentChange"`
	WeighedIn     bool     `json:"weighedIn"`
}

// WeeklyComparison lists every user for the given week, including those who
// have not weighed in yet. Rows with data come first, best change on top.
func (s *ScoringService) WeeklyComparison(ctx context.Context, weekStart string) ([]ComparisonRow, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	ranked, err := s.WeekChanges(ctx, weekStart)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.WeekChange, len(ranked))
	for _, c := range ranked {
		byID[c.UserID] = c
	}

	rows := make([]ComparisonRow, 0, len(users))
	for _, c := range ranked {
		weight, change := c.Weight, domain.Round2(c.PercentChange)
		rows = append(rows, ComparisonRow{
			UserID:        c.UserID,
			Name:          c.Name,
			Weight:        &weight,
			PercentChange: &change,
			WeighedIn:     true,
		})
	}
	for _, u := range users {
		if _, ok := byID[u.ID]; !ok {
			rows = append(rows, ComparisonRow{UserID: u.ID, Name: u.Name})
		}
	}
	return rows, nil
}

// ProgressPoint is a single charted value, relative to the start weight.
type ProgressPoint struct {
	Week  string  `json:"week"`
	Value float64 `json:"value"`
}

// ProgressSeries is one user's chart line, starting at 100%.
type ProgressSeries struct {
	UserID int64           `json:"userId"`
	Name   string          `json:"name"`
	Points []ProgressPoint `json:"points"`
}

// RelativeProgress returns per-user chart data with the start weight
// normalised to 100%.
func (s *ScoringService) RelativeProgress(ctx context.Context) ([]ProgressSeries, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProgressSeries, 0, len(users))
	for _, u := range users {
		history, err := s.weighIns.ListByUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		points := make([]ProgressPoint, 0, len(history)+1)
		points = append(points, ProgressPoint{Week: "Start", Value: 100})
		for _, wi := range history {
			points = append(points, ProgressPoint{
				Week:  wi.WeekStart,
				Value: domain.Round2(wi.Weight / u.StartWeight * 100),
			})
		}
		out = append(out, ProgressSeries{UserID: u.ID, Name: u.Name, Points: points})
	}
	return out, nil
}

// WeeklyEntry is one week of a user's detail history.
type WeeklyEntry struct {
	WeekStart       string  `json:"weekStart"`
	Weight          float64 `json:"weight"`
	PercentChange   float64 `json:"percentChange"`
	RelativeToStart float64 `json:"relativeToStart"`
}

// UserStats is the per-user detail view.
type UserStats struct {
	UserID             int64         `json:"userId"`
	Name               string        `json:"name"`
	StartWeight        float64       `json:"startWeight"`
	CurrentWeight      float64       `json:"currentWeight"`
	TotalPercentChange *float64      `json:"totalPercentChange"`
	Wins               int           `json:"wins"`
	Losses             int           `json:"losses"`
	WeeksParticipated  int           `json:"weeksParticipated"`
	Weekly             []WeeklyEntry `json:"weekly"`
}

// UserStatsFor builds the detail view for a single user.
func (s *ScoringService) UserStatsFor(ctx context.Context, userID int64) (*UserStats, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	history, err := s.weighIns.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	outcomes, err := s.OutcomesByWeek(ctx)
	if err != nil {
		return nil, err
	}
	cs := s.cumulative(user, history, outcomes)

	weekly := make([]WeeklyEntry, 0, len(history))
	for _, wi := range history {
		ref, err := s.ReferenceWeight(ctx, user, wi.WeekStart)
		if err != nil {
			return nil, err
		}
		weekly = append(weekly, WeeklyEntry{
			WeekStart:       wi.WeekStart,
			Weight:          wi.Weight,
			PercentChange:   domain.Round2(domain.PercentChange(ref, wi.Weight)),
			RelativeToStart: domain.Round2(wi.Weight / user.StartWeight * 100),
		})
	}

	return &UserStats{
		UserID:             user.ID,
		Name:               user.Name,
		StartWeight:        user.StartWeight,
		CurrentWeight:      cs.CurrentWeight,
		TotalPercentChange: cs.TotalPercentChange,
		Wins:               cs.Wins,
		Losses:             cs.Losses,
		WeeksParticipated:  len(history),
		Weekly:             weekly,
	}, nil
}

func (s *ScoringService) usersByID(ctx context.Context) (map[int64]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*domain.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	return byID, nil
}
