package app

import (
	"context"
	"sort"
	"time"

	"weightbattle/internal/domain"
)

// PrognosisService projects each user's weight to the battle end date with a
// least-squares fit over their weekly history.
type PrognosisService struct {
	users    domain.UserRepository
	weighIns domain.WeighInRepository
	config   domain.ConfigRepository
}

// NewPrognosisService creates a PrognosisService backed by the given repositories.
func NewPrognosisService(users domain.UserRepository, weighIns domain.WeighInRepository, config domain.ConfigRepository) *PrognosisService {
	return &PrognosisService{users: users, weighIns: weighIns, config: config}
}

// PrognosisRow is one user's projection. Pointer fields are nil when the fit
// had fewer than two points.
type PrognosisRow struct {
	UserID               int64        `json:"userId"`
	Name                 string       `json:"name"`
	CurrentWeight        float64      `json:"currentWeight"`
	ProjectedWeight      *float64     `json:"projectedWeight"`
	ProjectedTotalChange *float64     `json:"projectedTotalChange"`
	WeeklyTrend          *float64     `json:"weeklyTrend"`
	Trend                domain.Trend `json:"trend"`
}

// Prognosis is the full projection view.
type Prognosis struct {
	EndDate        string         `json:"endDate"`
	WeeksRemaining int            `json:"weeksRemaining"`
	Rows           []PrognosisRow `json:"rows"`
}

// TrendFor classifies a single user's weight trend. The start weight counts
// as the first data point, so one weigh-in already allows a fit.
func (s *PrognosisService) TrendFor(ctx context.Context, userID int64) (domain.Trend, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	history, err := s.weighIns.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	slope, _, err := domain.FitLine(seriesFor(user, history))
	if err != nil {
		return domain.TrendInsufficient, nil
	}
	return domain.ClassifyTrend(slope), nil
}

// WeeksRemaining returns the whole weeks between now and the configured end
// date, never negative.
func (s *PrognosisService) WeeksRemaining(ctx context.Context, now time.Time) (int, error) {
	cfg, err := s.config.Load(ctx)
	if err != nil {
		return 0, err
	}
	return domain.WeeksUntil(now, cfg.EndDate)
}

// Project evaluates each user's fitted line at the week index matching the
// battle end date. Extrapolation is the intended use; the projection is not
// clamped. Rows are ordered best projected change first, users without
// enough data last.
func (s *PrognosisService) Project(ctx context.Context, now time.Time) (*Prognosis, error) {
	cfg, err := s.config.Load(ctx)
	if err != nil {
		return nil, err
	}
	weeksRemaining, err := domain.WeeksUntil(now, cfg.EndDate)
	if err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]PrognosisRow, 0, len(users))
	for i := range users {
		user := &users[i]
		history, err := s.weighIns.ListByUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, projectUser(user, history, weeksRemaining))
	}

	sort.Slice(rows, func(i, j int) bool {
		ci, cj := projectedChange(rows[i]), projectedChange(rows[j])
		if ci != cj {
			return ci > cj
		}
		return rows[i].Name < rows[j].Name
	})

	return &Prognosis{EndDate: cfg.EndDate, WeeksRemaining: weeksRemaining, Rows: rows}, nil
}

func projectUser(user *domain.User, history []domain.WeighIn, weeksRemaining int) PrognosisRow {
	row := PrognosisRow{UserID: user.ID, Name: user.Name, CurrentWeight: user.StartWeight}
	if len(history) > 0 {
		row.CurrentWeight = history[len(history)-1].Weight
	}

	series := seriesFor(user, history)
	slope, intercept, err := domain.FitLine(series)
	if err != nil {
		row.Trend = domain.TrendInsufficient
		return row
	}

	targetWeek := float64(len(series)-1) + float64(weeksRemaining)
	projected := domain.Round2(intercept + slope*targetWeek)
	change := domain.Round2(domain.PercentChange(user.StartWeight, projected))
	trendPerWeek := domain.Round2(slope)

	row.ProjectedWeight = &projected
	row.ProjectedTotalChange = &change
	row.WeeklyTrend = &trendPerWeek
	row.Trend = domain.ClassifyTrend(slope)
	return row
}

// seriesFor builds the (week index, weight) series: the start weight at index
// zero followed by the chronological weigh-ins.
func seriesFor(user *domain.User, history []domain.WeighIn) []float64 {
	series := make([]float64, 0, len(history)+1)
	series = append(series, user.StartWeight)
	for _, wi := range history {
		series = append(series, wi.Weight)
	}
	return series
}

func projectedChange(r PrognosisRow) float64 {
	if r.ProjectedTotalChange == nil {
		return -999
	}
	return *r.ProjectedTotalChange
}
