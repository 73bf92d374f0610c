// Package ensemblecast forecasts a scalar annual quantity several periods
// ahead from a short, noisy history. It runs a random walk with drift, an
// exponential smoothing shape selector, and an ARIMA order search
// independently, drops the members whose in-sample error marks them
// unreliable, and blends the survivors weighted by inverse error. When no
// member survives it falls back to a linear trend fit. Every call is a pure
// function of the input series and horizon.
package ensemblecast

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ensemblecast/ensemblecast/estimator"
	"github.com/ensemblecast/ensemblecast/timeseries"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrNoForecast     = errors.New("no forecast available")
	ErrInvalidHorizon = errors.New("horizon must be at least 1")
)

// MinObservations is the engine-level minimum series length checked before
// any method is attempted.
const MinObservations = 3

// member pairs an estimator with the short code used in the ensemble name.
type member struct {
	code string
	run  func(*timeseries.Series, int) (*estimator.Result, error)
}

var members = []member{
	{code: "RW", run: estimator.RandomWalk},
	{code: "ES", run: estimator.Smoothing},
	{code: "ARIMA", run: estimator.ARIMA},
}

// RobustEnsemble forecasts the series opt.Horizon periods ahead. Estimator
// failures are local: a method that cannot fit, or whose MAPE reaches
// opt.MaxMAPE, is simply left out of the blend. With no surviving member the
// linear trend fallback is returned with IsFallback set. ErrNoForecast is
// returned when the series is shorter than MinObservations or even the
// fallback cannot fit.
func RobustEnsemble(series *timeseries.Series, opt *Options) (*ForecastResult, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	} else {
		o := *opt
		if o.Horizon == 0 {
			o.Horizon = DefaultHorizon
		}
		if o.MaxMAPE == 0 {
			o.MaxMAPE = DefaultMaxMAPE
		}
		if o.MAPEFloor == 0 {
			o.MAPEFloor = DefaultMAPEFloor
		}
		opt = &o
	}
	if opt.Horizon < 1 {
		return nil, ErrInvalidHorizon
	}
	if series == nil || series.Len() < MinObservations {
		return nil, fmt.Errorf("series has fewer than %d observations, %w", MinObservations, ErrNoForecast)
	}

	var results []*estimator.Result
	var codes []string
	var weights []float64
	for _, m := range members {
		res, err := m.run(series, opt.Horizon)
		if err != nil || res == nil {
			continue
		}
		if res.MAPE >= opt.MaxMAPE {
			continue
		}
		results = append(results, res)
		codes = append(codes, m.code)
		weights = append(weights, 1.0/math.Max(res.MAPE, opt.MAPEFloor))
	}

	if len(results) == 0 {
		return fallbackForecast(series, opt.Horizon)
	}

	floats.Scale(1.0/floats.Sum(weights), weights)

	forecasts := make([]float64, opt.Horizon)
	lower := make([]float64, opt.Horizon)
	upper := make([]float64, opt.Horizon)
	for i, res := range results {
		floats.AddScaled(forecasts, weights[i], res.Forecasts)
		floats.AddScaled(lower, weights[i], res.LowerBounds)
		floats.AddScaled(upper, weights[i], res.UpperBounds)
	}

	// members with differencing reconstruct fewer points; blend over the
	// common tail so fitted values align with the most recent observations
	fitLen := len(results[0].FittedValues)
	for _, res := range results[1:] {
		if len(res.FittedValues) < fitLen {
			fitLen = len(res.FittedValues)
		}
	}
	fitted := make([]float64, fitLen)
	for i, res := range results {
		tail := res.FittedValues[len(res.FittedValues)-fitLen:]
		floats.AddScaled(fitted, weights[i], tail)
	}

	best := results[0]
	for _, res := range results[1:] {
		if res.MAPE < best.MAPE {
			best = res
		}
	}

	components := make([]string, len(results))
	for i, res := range results {
		components[i] = res.Method
	}

	return &ForecastResult{
		Method:       "Robust Ensemble (" + strings.Join(codes, "+") + ")",
		Forecasts:    forecasts,
		LowerBounds:  lower,
		UpperBounds:  upper,
		FittedValues: fitted,
		MAE:          best.MAE,
		MAPE:         best.MAPE,
		Components:   components,
		Weights:      weights,
		IsFallback:   false,
	}, nil
}

func fallbackForecast(series *timeseries.Series, horizon int) (*ForecastResult, error) {
	res, err := estimator.LinearTrend(series, horizon)
	if err != nil {
		return nil, fmt.Errorf("fallback trend fit failed, %w", ErrNoForecast)
	}
	return &ForecastResult{
		Method:       res.Method,
		Forecasts:    res.Forecasts,
		LowerBounds:  res.LowerBounds,
		UpperBounds:  res.UpperBounds,
		FittedValues: res.FittedValues,
		MAE:          res.MAE,
		MAPE:         res.MAPE,
		Components:   []string{"Linear Regression"},
		Weights:      []float64{1.0},
		IsFallback:   true,
	}, nil
}
