package dataset

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// MinMaxScaler linearly maps the observed [Min, Max] of a column onto
// [Low, High]. Missing values (NaN) are ignored by Fit and pass through
// Scale unchanged.
type MinMaxScaler struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// NewMinMaxScaler returns an unfitted scaler targeting [low, high].
func NewMinMaxScaler(low, high float64) MinMaxScaler {
	return MinMaxScaler{Low: low, High: high}
}

// Fit records the minimum and maximum of xs.
func (s *MinMaxScaler) Fit(xs []float64) error {
	present := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			present = append(present, x)
		}
	}
	lo, err := stats.Min(present)
	if err != nil {
		return fmt.Errorf("fit scaler: %w", err)
	}
	hi, err := stats.Max(present)
	if err != nil {
		return fmt.Errorf("fit scaler: %w", err)
	}
	s.Min, s.Max = lo, hi
	return nil
}

// Degenerate reports whether the fitted column had a single distinct value.
func (s MinMaxScaler) Degenerate() bool { return s.Max == s.Min }

// Midpoint is the value emitted for every row of a degenerate column.
func (s MinMaxScaler) Midpoint() float64 { return s.Low + (s.High-s.Low)/2 }

// Scale maps x into the target range.
func (s MinMaxScaler) Scale(x float64) float64 {
	if math.IsNaN(x) {
		return x
	}
	if s.Degenerate() {
		return s.Midpoint()
	}
	return s.Low + (x-s.Min)/(s.Max-s.Min)*(s.High-s.Low)
}

// Transform scales every value of xs into a new slice.
func (s MinMaxScaler) Transform(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = s.Scale(x)
	}
	return out
}

// FitTransform fits the scaler on xs and returns the scaled values.
func (s *MinMaxScaler) FitTransform(xs []float64) ([]float64, error) {
	if err := s.Fit(xs); err != nil {
		return nil, err
	}
	return s.Transform(xs), nil
}
