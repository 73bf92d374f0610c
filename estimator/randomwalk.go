package estimator

import (
	"fmt"
	"math"

	"github.com/ensemblecast/ensemblecast/stats"
	"github.com/ensemblecast/ensemblecast/timeseries"
)

// MinRandomWalkObs is the minimum number of observations required to estimate
// a drift and its spread.
const MinRandomWalkObs = 3

// RandomWalk forecasts by extrapolating the mean first difference of the
// series, the drift, from the last observed value. The interval half-width
// grows with the square root of the step since random walk forecast variance
// accumulates linearly with horizon.
func RandomWalk(series *timeseries.Series, horizon int) (*Result, error) {
	if horizon < 1 {
		return nil, ErrInvalidHorizon
	}
	if series == nil || series.Len() < MinRandomWalkObs {
		return nil, ErrInsufficientData
	}

	changes := series.Diff()
	drift, driftStd := stats.MeanStdDev(changes)
	if math.IsNaN(drift) {
		return nil, fmt.Errorf("drift is undefined, %w", ErrFitFailed)
	}
	if math.IsNaN(driftStd) || driftStd == 0 {
		// a flat difference series would give a zero-width interval
		if math.Abs(drift) > 0 {
			driftStd = math.Abs(drift) * 0.1
		} else {
			driftStd = stats.StdDev(series.Values) * 0.1
		}
	}

	last := series.Last()
	forecasts := make([]float64, 0, horizon)
	lower := make([]float64, 0, horizon)
	upper := make([]float64, 0, horizon)
	for i := 1; i <= horizon; i++ {
		forecast := last + drift*float64(i)
		halfWidth := Zscore95 * driftStd * math.Sqrt(float64(i))
		floored := math.Max(forecast, 0)

		forecasts = append(forecasts, floored)
		lower = append(lower, math.Max(forecast-halfWidth, 0))
		// a deep declining drift can push the raw band entirely below
		// zero; the interval still has to cover the floored forecast
		upper = append(upper, math.Max(forecast+halfWidth, floored))
	}

	// full in-sample drift trajectory from the first observation, not
	// one-step-ahead predictions
	fitted := make([]float64, series.Len())
	fitted[0] = series.Values[0]
	for i := 1; i < len(fitted); i++ {
		fitted[i] = fitted[i-1] + drift
	}

	mae, mape, err := scoreFit(fitted, series.Values)
	if err != nil {
		return nil, fmt.Errorf("unable to score drift trajectory, %w", ErrFitFailed)
	}

	return &Result{
		Method:       "Random Walk with Drift",
		Forecasts:    forecasts,
		LowerBounds:  lower,
		UpperBounds:  upper,
		FittedValues: fitted,
		MAE:          mae,
		MAPE:         mape,
	}, nil
}
