package estimator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearTrendExactLine(t *testing.T) {
	s := newSeries(t, []float64{10, 20, 30, 40})
	res, err := LinearTrend(s, 3)
	require.Nil(t, err)

	assert.Equal(t, "Linear Trend (Fallback)", res.Method)
	assert.InDeltaSlice(t, []float64{50, 60, 70}, res.Forecasts, 1e-9)
	assert.InDeltaSlice(t, []float64{10, 20, 30, 40}, res.FittedValues, 1e-9)
	assert.InDelta(t, 0.0, res.MAE, 1e-9)
	assert.InDelta(t, 0.0, res.MAPE, 1e-9)
}

func TestLinearTrendSinglePoint(t *testing.T) {
	s := newSeries(t, []float64{42})
	res, err := LinearTrend(s, 2)
	require.Nil(t, err)

	assert.InDeltaSlice(t, []float64{42, 42}, res.Forecasts, 1e-9)
}

func TestLinearTrendConstantSeries(t *testing.T) {
	s := newSeries(t, []float64{7, 7, 7})
	res, err := LinearTrend(s, 2)
	require.Nil(t, err)

	assert.InDeltaSlice(t, []float64{7, 7}, res.Forecasts, 1e-9)
	assert.InDeltaSlice(t, []float64{7, 7}, res.LowerBounds, 1e-9)
	assert.InDeltaSlice(t, []float64{7, 7}, res.UpperBounds, 1e-9)
}

func TestLinearTrendFloorsAtZero(t *testing.T) {
	s := newSeries(t, []float64{20, 10, 0})
	res, err := LinearTrend(s, 3)
	require.Nil(t, err)

	for i, f := range res.Forecasts {
		assert.GreaterOrEqual(t, f, 0.0)
		assert.GreaterOrEqual(t, res.LowerBounds[i], 0.0)
	}
	assert.InDelta(t, 0.0, res.Forecasts[2], 1e-9)
}

func TestLinearTrendInvalidHorizon(t *testing.T) {
	s := newSeries(t, []float64{1, 2, 3})
	_, err := LinearTrend(s, 0)
	require.ErrorIs(t, err, ErrInvalidHorizon)
}

func TestLinearTrendNilSeries(t *testing.T) {
	_, err := LinearTrend(nil, 3)
	require.ErrorIs(t, err, ErrInsufficientData)
}
