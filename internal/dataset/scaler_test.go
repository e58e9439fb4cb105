package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinMaxScalerMapsExtremes(t *testing.T) {
	s := NewMinMaxScaler(1, 10)
	out, err := s.FitTransform([]float64{5, 15, 30})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, out[0], 1e-9)
	assert.InDelta(t, 4.6, out[1], 1e-9)
	assert.InDelta(t, 10.0, out[2], 1e-9)
}

func TestMinMaxScalerIgnoresMissing(t *testing.T) {
	s := NewMinMaxScaler(1, 10)
	out, err := s.FitTransform([]float64{math.NaN(), 2, 4})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out[0]))
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.InDelta(t, 10.0, out[2], 1e-9)
}

func TestMinMaxScalerDegenerateUsesMidpoint(t *testing.T) {
	s := NewMinMaxScaler(1, 10)
	out, err := s.FitTransform([]float64{7, 7, 7})
	require.NoError(t, err)
	assert.True(t, s.Degenerate())
	for _, v := range out {
		assert.Equal(t, 5.5, v)
	}
}

func TestMinMaxScalerEmpty(t *testing.T) {
	s := NewMinMaxScaler(1, 10)
	_, err := s.FitTransform([]float64{math.NaN()})
	assert.Error(t, err)
}
