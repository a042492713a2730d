package domain_test

import (
	"errors"
	"testing"

	"weightbattle/internal/domain"
)

func TestFitLine(t *testing.T) {
	tests := []struct {
		name          string
		weights       []float64
		wantSlope     float64
		wantIntercept float64
	}{
		{"two points exact", []float64{100, 99}, -1, 100},
		{"steady loss", []float64{90, 89, 88, 87}, -1, 90},
		{"identical weights are flat", []float64{75, 75, 75}, 0, 75},
		{"steady gain", []float64{60, 61, 62}, 1, 60},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			slope, intercept, err := domain.FitLine(tc.weights)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almostEqual(slope, tc.wantSlope) {
				t.Errorf("slope = %v; want %v", slope, tc.wantSlope)
			}
			if !almostEqual(intercept, tc.wantIntercept) {
				t.Errorf("intercept = %v; want %v", intercept, tc.wantIntercept)
			}
		})
	}
}

func TestFitLine_InsufficientData(t *testing.T) {
	for _, weights := range [][]float64{nil, {82.5}} {
		if _, _, err := domain.FitLine(weights); !errors.Is(err, domain.ErrInsufficientData) {
			t.Errorf("FitLine(%v) err = %v; want ErrInsufficientData", weights, err)
		}
	}
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name  string
		slope float64
		want  domain.Trend
	}{
		{"losing", -0.5, domain.TrendLosing},
		{"gaining", 0.5, domain.TrendGaining},
		{"flat", 0, domain.TrendStable},
		{"noise below epsilon is stable", -0.009, domain.TrendStable},
		{"noise above epsilon counts", -0.011, domain.TrendLosing},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := domain.ClassifyTrend(tc.slope); got != tc.want {
				t.Errorf("ClassifyTrend(%v) = %q; want %q", tc.slope, got, tc.want)
			}
		})
	}
}
