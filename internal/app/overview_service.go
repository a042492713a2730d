package app

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"weightbattle/internal/domain"
)

// headToHeadThreshold in percentage points: if the top two of the current
// week are closer than this, the race is flagged as head-to-head.
const headToHeadThreshold = 0.3

// OverviewService assembles the battle dashboard from the other engines.
type OverviewService struct {
	users    domain.UserRepository
	weighIns domain.WeighInRepository
	config   domain.ConfigRepository
	scoring  *ScoringService
	pot      *PotService
}

// NewOverviewService creates an OverviewService backed by the given collaborators.
func NewOverviewService(users domain.UserRepository, weighIns domain.WeighInRepository, config domain.ConfigRepository, scoring *ScoringService, pot *PotService) *OverviewService {
	return &OverviewService{users: users, weighIns: weighIns, config: config, scoring: scoring, pot: pot}
}

// WeekStanding is one user's position in the running week.
type WeekStanding struct {
	UserID        int64   `json:"userId"`
	Name          string  `json:"name"`
	Weight        float64 `json:"weight"`
	PercentChange float64 `json:"percentChange"`
}

// Overview is the dashboard view.
type Overview struct {
	CurrentWeek       string           `json:"currentWeek"`
	EndDate           string           `json:"endDate"`
	DaysRemaining     int              `json:"daysRemaining"`
	TotalParticipants int              `json:"totalParticipants"`
	PotTotal          decimal.Decimal  `json:"potTotal"`
	Leader            *LeaderboardRow  `json:"leader"`
	CurrentStandings  []WeekStanding   `json:"currentStandings"`
	MissingWeighIns   []string         `json:"missingWeighIns"`
	HeadToHead        bool             `json:"headToHead"`
	Leaderboard       []LeaderboardRow `json:"leaderboard"`
}

// Build assembles the dashboard for the week containing now.
func (s *OverviewService) Build(ctx context.Context, now time.Time) (*Overview, error) {
	cfg, err := s.config.Load(ctx)
	if err != nil {
		return nil, err
	}
	currentWeek := domain.WeekStartOf(now)

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	leaderboard, err := s.scoring.Leaderboard(ctx)
	if err != nil {
		return nil, err
	}
	potTotal, err := s.pot.Total(ctx)
	if err != nil {
		return nil, err
	}
	daysRemaining, err := domain.DaysUntil(now, cfg.EndDate)
	if err != nil {
		return nil, err
	}

	ranked, err := s.scoring.WeekChanges(ctx, currentWeek)
	if err != nil {
		return nil, err
	}
	standings := make([]WeekStanding, 0, len(ranked))
	weighedIn := make(map[int64]bool, len(ranked))
	for _, c := range ranked {
		weighedIn[c.UserID] = true
		standings = append(standings, WeekStanding{
			UserID:        c.UserID,
			Name:          c.Name,
			Weight:        c.Weight,
			PercentChange: domain.Round2(c.PercentChange),
		})
	}

	missing := make([]string, 0)
	for _, u := range users {
		if !weighedIn[u.ID] {
			missing = append(missing, u.Name)
		}
	}

	headToHead := len(ranked) >= 2 &&
		math.Abs(ranked[0].PercentChange-ranked[1].PercentChange) < headToHeadThreshold

	var leader *LeaderboardRow
	if len(leaderboard) > 0 {
		leader = &leaderboard[0]
	}

	return &Overview{
		CurrentWeek:       currentWeek,
		EndDate:           cfg.EndDate,
		DaysRemaining:     daysRemaining,
		TotalParticipants: len(users),
		PotTotal:          potTotal,
		Leader:            leader,
		CurrentStandings:  standings,
		MissingWeighIns:   missing,
		HeadToHead:        headToHead,
		Leaderboard:       leaderboard,
	}, nil
}
