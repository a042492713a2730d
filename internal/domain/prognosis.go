package domain

import "github.com/montanaflynn/stats"

// TrendEpsilon is the slope band in kg/week treated as stable, so noise does
// not flap the classification between losing and gaining.
const TrendEpsilon = 0.01

// Trend classifies the direction of a user's fitted weight line.
type Trend string

const (
	TrendLosing       Trend = "losing"
	TrendGaining      Trend = "gaining"
	TrendStable       Trend = "stable"
	TrendInsufficient Trend = "insufficient_data"
)

// FitLine fits an ordinary least-squares line through weight as a function of
// week index (0, 1, 2, ...). At least two points are required. Week indices
// are distinct, so the normal-equation denominator never vanishes; identical
// weights yield a slope of exactly zero.
func FitLine(weights []float64) (slope, intercept float64, err error) {
	if len(weights) < 2 {
		return 0, 0, ErrInsufficientData
	}
	series := make(stats.Series, len(weights))
	for i, w := range weights {
		series[i] = stats.Coordinate{X: float64(i), Y: w}
	}
	fitted, err := stats.LinearRegression(series)
	if err != nil {
		return 0, 0, err
	}
	n := len(fitted)
	slope = (fitted[n-1].Y - fitted[0].Y) / (fitted[n-1].X - fitted[0].X)
	intercept = fitted[0].Y - slope*fitted[0].X
	return slope, intercept, nil
}

// ClassifyTrend maps a fitted slope to a trend. Weight going down is losing.
func ClassifyTrend(slope float64) Trend {
	switch {
	case slope < -TrendEpsilon:
		return TrendLosing
	case slope > TrendEpsilon:
		return TrendGaining
	default:
		return TrendStable
	}
}
