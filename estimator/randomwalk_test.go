package estimator

import (
	"testing"

	"github.com/ensemblecast/ensemblecast/timeseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeries(t *testing.T, values []float64) *timeseries.Series {
	t.Helper()
	periods := make([]int, len(values))
	for i := range periods {
		periods[i] = 2015 + i
	}
	s, err := timeseries.New(periods, values)
	require.Nil(t, err)
	return s
}

func TestRandomWalkInsufficientData(t *testing.T) {
	s := newSeries(t, []float64{10, 12})
	_, err := RandomWalk(s, 3)
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestRandomWalkInvalidHorizon(t *testing.T) {
	s := newSeries(t, []float64{10, 12, 11})
	_, err := RandomWalk(s, 0)
	require.ErrorIs(t, err, ErrInvalidHorizon)
}

func TestRandomWalkLinearSeries(t *testing.T) {
	// drift is exactly 10 and the difference spread is degenerate, so the
	// interval width comes from the 10% drift substitute
	s := newSeries(t, []float64{10, 20, 30, 40})
	res, err := RandomWalk(s, 3)
	require.Nil(t, err)

	assert.Equal(t, "Random Walk with Drift", res.Method)
	assert.InDeltaSlice(t, []float64{50, 60, 70}, res.Forecasts, 1e-9)
	assert.InDeltaSlice(t, []float64{10, 20, 30, 40}, res.FittedValues, 1e-9)
	assert.InDelta(t, 0.0, res.MAE, 1e-9)
	assert.InDelta(t, 0.0, res.MAPE, 1e-9)

	for i := range res.Forecasts {
		assert.Less(t, res.LowerBounds[i], res.Forecasts[i])
		assert.Greater(t, res.UpperBounds[i], res.Forecasts[i])
	}
}

func TestRandomWalkDriftScores(t *testing.T) {
	s := newSeries(t, []float64{100, 102, 101, 105, 108})
	res, err := RandomWalk(s, 3)
	require.Nil(t, err)

	// drift = mean([2, -1, 4, 3]) = 2
	assert.InDeltaSlice(t, []float64{110, 112, 114}, res.Forecasts, 1e-9)
	assert.InDeltaSlice(t, []float64{100, 102, 104, 106, 108}, res.FittedValues, 1e-9)
	assert.InDelta(t, 0.8, res.MAE, 1e-9)
	assert.InDelta(t, 0.78453, res.MAPE, 1e-4)
}

func TestRandomWalkIntervalGrowth(t *testing.T) {
	s := newSeries(t, []float64{100, 102, 101, 105, 108})
	res, err := RandomWalk(s, 10)
	require.Nil(t, err)

	prevWidth := 0.0
	for i := range res.Forecasts {
		width := res.UpperBounds[i] - res.LowerBounds[i]
		assert.GreaterOrEqual(t, width, prevWidth)
		prevWidth = width
	}
}

func TestRandomWalkFlatSeries(t *testing.T) {
	s := newSeries(t, []float64{5, 5, 5, 5})
	res, err := RandomWalk(s, 2)
	require.Nil(t, err)

	assert.InDeltaSlice(t, []float64{5, 5}, res.Forecasts, 1e-9)
	assert.InDelta(t, 0.0, res.MAPE, 1e-9)
}

func TestRandomWalkFloorsAtZero(t *testing.T) {
	s := newSeries(t, []float64{30, 20, 10})
	res, err := RandomWalk(s, 4)
	require.Nil(t, err)

	// drift of -10 pushes later steps below zero
	for i, f := range res.Forecasts {
		assert.GreaterOrEqual(t, f, 0.0)
		assert.GreaterOrEqual(t, res.LowerBounds[i], 0.0)
	}
	assert.InDelta(t, 0.0, res.Forecasts[3], 1e-9)
}

func TestRandomWalkDecliningSeriesInterval(t *testing.T) {
	// deep decline drives the whole raw band below zero at far steps; the
	// interval must still bracket the floored forecast
	s := newSeries(t, []float64{30, 20, 10})
	res, err := RandomWalk(s, 5)
	require.Nil(t, err)

	for i, f := range res.Forecasts {
		assert.GreaterOrEqual(t, f, 0.0)
		assert.GreaterOrEqual(t, res.LowerBounds[i], 0.0)
		assert.LessOrEqual(t, res.LowerBounds[i], f)
		assert.GreaterOrEqual(t, res.UpperBounds[i], f)
	}
}
