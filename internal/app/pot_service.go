package app

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"weightbattle/internal/domain"
)

// recentContributionCount limits the recent-payments list in the pot view.
const recentContributionCount = 5

// PotService applies the loss-penalty rule and settles the shared pot.
// All amounts are exact decimals; no float arithmetic touches money.
type PotService struct {
	users   domain.UserRepository
	pot     domain.PotRepository
	config  domain.ConfigRepository
	scoring *ScoringService
}

// NewPotService creates a PotService backed by the given collaborators.
func NewPotService(users domain.UserRepository, pot domain.PotRepository, config domain.ConfigRepository, scoring *ScoringService) *PotService {
	return &PotService{users: users, pot: pot, config: config, scoring: scoring}
}

// RecordLoss re-resolves the given week and brings the pot in line: a single
// loser yields exactly one contribution keyed by the week, a tie or missing
// data removes any stale one. Safe to call any number of times.
func (s *PotService) RecordLoss(ctx context.Context, weekStart string) error {
	outcome, _, err := s.scoring.WeekOutcome(ctx, weekStart)
	if err != nil {
		return err
	}
	if outcome.LoserID == 0 {
		return s.pot.Delete(ctx, weekStart)
	}
	cfg, err := s.config.Load(ctx)
	if err != nil {
		return err
	}
	return s.pot.Upsert(ctx, weekStart, outcome.LoserID, cfg.PotContribution, time.Now().UTC())
}

// Total sums all contributions currently in the pot.
func (s *PotService) Total(ctx context.Context) (decimal.Decimal, error) {
	contributions, err := s.pot.List(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, c := range contributions {
		total = total.Add(c.Amount)
	}
	return total, nil
}

// UserContribution is one user's share of the pot.
type UserContribution struct {
	UserID           int64           `json:"userId"`
	Name             string          `json:"name"`
	TimesLost        int             `json:"timesLost"`
	TotalContributed decimal.Decimal `json:"totalContributed"`
}

// RecentContribution is one entry of the latest-payments list.
type RecentContribution struct {
	WeekStart string          `json:"weekStart"`
	UserID    int64           `json:"userId"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// PotSummary is the full pot view.
type PotSummary struct {
	Total               decimal.Decimal      `json:"total"`
	TotalAmount         decimal.Decimal      `json:"totalAmount"`
	RemainingAmount     decimal.Decimal      `json:"remainingAmount"`
	Contributions       []UserContribution   `json:"contributions"`
	RecentContributions []RecentContribution `json:"recentContributions"`
	FinalPayers         []UserContribution   `json:"finalPayers"`
}

// FinalPayers returns the user(s) with the most losses; they cover whatever
// the pot is still short of the target. Zero losses means nobody is on the
// hook yet.
func (s *PotService) FinalPayers(ctx context.Context) ([]UserContribution, error) {
	byUser, err := s.contributionsByUser(ctx)
	if err != nil {
		return nil, err
	}
	maxLosses := 0
	for _, c := range byUser {
		if c.TimesLost > maxLosses {
			maxLosses = c.TimesLost
		}
	}
	if maxLosses == 0 {
		return nil, nil
	}
	payers := make([]UserContribution, 0, 1)
	for _, c := range byUser {
		if c.TimesLost == maxLosses {
			payers = append(payers, c)
		}
	}
	return payers, nil
}

// Summary builds the complete pot view: totals, remaining amount against the
// configured target, per-user breakdown, recent payments and final payers.
func (s *PotService) Summary(ctx context.Context) (*PotSummary, error) {
	cfg, err := s.config.Load(ctx)
	if err != nil {
		return nil, err
	}
	contributions, err := s.pot.List(ctx)
	if err != nil {
		return nil, err
	}
	byUser, err := s.contributionsByUser(ctx)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, c := range contributions {
		total = total.Add(c.Amount)
	}
	remaining := cfg.TotalAmount.Sub(total)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	names := make(map[int64]string, len(byUser))
	for _, c := range byUser {
		names[c.UserID] = c.Name
	}
	recent := make([]RecentContribution, 0, recentContributionCount)
	for _, c := range contributions {
		if len(recent) == recentContributionCount {
			break
		}
		recent = append(recent, RecentContribution{
			WeekStart: c.WeekStart,
			UserID:    c.UserID,
			Name:      names[c.UserID],
			Amount:    c.Amount,
		})
	}

	payers, err := s.FinalPayers(ctx)
	if err != nil {
		return nil, err
	}

	return &PotSummary{
		Total:               total,
		TotalAmount:         cfg.TotalAmount,
		RemainingAmount:     remaining,
		Contributions:       byUser,
		RecentContributions: recent,
		FinalPayers:         payers,
	}, nil
}

// ContributionsByUser returns each user's loss count and contributed total,
// zero rows included, ordered by total descending.
func (s *PotService) ContributionsByUser(ctx context.Context) ([]UserContribution, error) {
	return s.contributionsByUser(ctx)
}

func (s *PotService) contributionsByUser(ctx context.Context) ([]UserContribution, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	contributions, err := s.pot.List(ctx)
	if err != nil {
		return nil, err
	}

	byUser := make([]UserContribution, len(users))
	index := make(map[int64]int, len(users))
	for i, u := range users {
		byUser[i] = UserContribution{UserID: u.ID, Name: u.Name, TotalContributed: decimal.Zero}
		index[u.ID] = i
	}
	for _, c := range contributions {
		i, ok := index[c.UserID]
		if !ok {
			continue
		}
		byUser[i].TimesLost++
		byUser[i].TotalContributed = byUser[i].TotalContributed.Add(c.Amount)
	}

	sort.Slice(byUser, func(i, j int) bool {
		if !byUser[i].TotalContributed.Equal(byUser[j].TotalContributed) {
			return byUser[i].TotalContributed.GreaterThan(byUser[j].TotalContributed)
		}
		return byUser[i].Name < byUser[j].Name
	})
	return byUser, nil
}
