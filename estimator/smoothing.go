package estimator

import (
	"fmt"
	"math"

	"github.com/ensemblecast/ensemblecast/stats"
	"github.com/ensemblecast/ensemblecast/timeseries"
)

// MinSmoothingObs is the minimum number of observations required by the
// exponential smoothing selector.
const MinSmoothingObs = 4

// smoothingModel is a fitted exponential smoothing shape. project returns the
// step-ahead point forecast for step >= 1.
type smoothingModel struct {
	name    string
	aic     float64
	fitted  []float64
	project func(step int) float64
}

// Smoothing fits a fixed menu of exponential smoothing shapes, no trend,
// additive trend, and, when every observation is strictly positive,
// multiplicative trend, and forecasts with the lowest-AIC fit. Shapes that
// fail to fit are skipped. The interval is a single global residual band and
// deliberately does not grow with the horizon.
func Smoothing(series *timeseries.Series, horizon int) (*Result, error) {
	if horizon < 1 {
		return nil, ErrInvalidHorizon
	}
	if series == nil || series.Len() < MinSmoothingObs {
		return nil, ErrInsufficientData
	}

	y := series.Values
	fits := []func([]float64) (*smoothingModel, error){
		fitSimpleSmoothing,
		fitAdditiveSmoothing,
	}
	if series.AllPositive() {
		fits = append(fits, fitMultiplicativeSmoothing)
	}

	var best *smoothingModel
	bestAIC := math.Inf(1)
	for _, fit := range fits {
		m, err := fit(y)
		if err != nil {
			continue
		}
		if m.aic < bestAIC {
			bestAIC = m.aic
			best = m
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no smoothing shape fit, %w", ErrNoCandidateFit)
	}

	residuals, err := stats.Residuals(best.fitted, y)
	if err != nil {
		return nil, fmt.Errorf("unable to compute smoothing residuals, %w", ErrFitFailed)
	}
	stdErr := stats.PopStdDev(residuals)

	forecasts := make([]float64, 0, horizon)
	lower := make([]float64, 0, horizon)
	upper := make([]float64, 0, horizon)
	for i := 1; i <= horizon; i++ {
		forecast := math.Max(best.project(i), 0)
		forecasts = append(forecasts, forecast)
		lower = append(lower, math.Max(forecast-Zscore95*stdErr, 0))
		upper = append(upper, forecast+Zscore95*stdErr)
	}

	mae, mape, err := scoreFit(best.fitted, y)
	if err != nil {
		return nil, fmt.Errorf("unable to score smoothing fit, %w", ErrFitFailed)
	}

	return &Result{
		Method:       fmt.Sprintf("Exponential Smoothing (%s)", best.name),
		Forecasts:    forecasts,
		LowerBounds:  lower,
		UpperBounds:  upper,
		FittedValues: best.fitted,
		MAE:          mae,
		MAPE:         mape,
		AIC:          best.aic,
	}, nil
}

// smoothingAIC is the Gaussian concentrated likelihood criterion for an
// SSE-minimizing fit with k estimated parameters and initial states.
func smoothingAIC(sse float64, n, k int) float64 {
	return float64(n)*math.Log(sse/float64(n)) + 2.0*float64(k)
}

// smoothingGrid iterates a deterministic parameter grid over (0, 1).
func smoothingGrid(f func(param float64)) {
	for i := 1; i <= 19; i++ {
		f(float64(i) * 0.05)
	}
}

func fitSimpleSmoothing(y []float64) (*smoothingModel, error) {
	n := len(y)

	bestAlpha := 0.0
	bestSSE := math.Inf(1)
	smoothingGrid(func(alpha float64) {
		level := y[0]
		sse := 0.0
		for t := 1; t < n; t++ {
			e := y[t] - level
			sse += e * e
			level = alpha*y[t] + (1-alpha)*level
		}
		if sse < bestSSE {
			bestSSE = sse
			bestAlpha = alpha
		}
	})
	if math.IsInf(bestSSE, 1) || math.IsNaN(bestSSE) {
		return nil, fmt.Errorf("simple smoothing did not converge, %w", ErrFitFailed)
	}

	level := y[0]
	fitted := make([]float64, n)
	fitted[0] = y[0]
	for t := 1; t < n; t++ {
		fitted[t] = level
		level = bestAlpha*y[t] + (1-bestAlpha)*level
	}

	finalLevel := level
	return &smoothingModel{
		name:   "Simple",
		aic:    smoothingAIC(bestSSE, n, 2),
		fitted: fitted,
		project: func(int) float64 {
			return finalLevel
		},
	}, nil
}

func fitAdditiveSmoothing(y []float64) (*smoothingModel, error) {
	n := len(y)

	run := func(alpha, beta float64, fitted []float64) (float64, float64, float64) {
		level := y[0]
		trend := y[1] - y[0]
		sse := 0.0
		if fitted != nil {
			fitted[0] = y[0]
		}
		for t := 1; t < n; t++ {
			pred := level + trend
			if fitted != nil {
				fitted[t] = pred
			}
			e := y[t] - pred
			sse += e * e

			prevLevel := level
			level = alpha*y[t] + (1-alpha)*(level+trend)
			trend = beta*(level-prevLevel) + (1-beta)*trend
		}
		return level, trend, sse
	}

	var bestAlpha, bestBeta float64
	bestSSE := math.Inf(1)
	smoothingGrid(func(alpha float64) {
		smoothingGrid(func(beta float64) {
			_, _, sse := run(alpha, beta, nil)
			if sse < bestSSE {
				bestSSE = sse
				bestAlpha = alpha
				bestBeta = beta
			}
		})
	})
	if math.IsInf(bestSSE, 1) || math.IsNaN(bestSSE) {
		return nil, fmt.Errorf("additive trend smoothing did not converge, %w", ErrFitFailed)
	}

	fitted := make([]float64, n)
	level, trend, _ := run(bestAlpha, bestBeta, fitted)

	return &smoothingModel{
		name:   "Linear Trend",
		aic:    smoothingAIC(bestSSE, n, 4),
		fitted: fitted,
		project: func(step int) float64 {
			return level + float64(step)*trend
		},
	}, nil
}

// fitMultiplicativeSmoothing fits a damped-free multiplicative trend. Callers
// must only use it when every observation is strictly positive.
func fitMultiplicativeSmoothing(y []float64) (*smoothingModel, error) {
	n := len(y)

	run := func(alpha, beta float64, fitted []float64) (float64, float64, float64) {
		level := y[0]
		trend := y[1] / y[0]
		sse := 0.0
		if fitted != nil {
			fitted[0] = y[0]
		}
		for t := 1; t < n; t++ {
			pred := level * trend
			if fitted != nil {
				fitted[t] = pred
			}
			e := y[t] - pred
			sse += e * e

			prevLevel := level
			level = alpha*y[t] + (1-alpha)*level*trend
			if prevLevel == 0 {
				return 0, 0, math.NaN()
			}
			trend = beta*(level/prevLevel) + (1-beta)*trend
		}
		return level, trend, sse
	}

	var bestAlpha, bestBeta float64
	bestSSE := math.Inf(1)
	smoothingGrid(func(alpha float64) {
		smoothingGrid(func(beta float64) {
			_, _, sse := run(alpha, beta, nil)
			if math.IsNaN(sse) || math.IsInf(sse, 0) {
				return
			}
			if sse < bestSSE {
				bestSSE = sse
				bestAlpha = alpha
				bestBeta = beta
			}
		})
	})
	if math.IsInf(bestSSE, 1) || math.IsNaN(bestSSE) {
		return nil, fmt.Errorf("multiplicative trend smoothing did not converge, %w", ErrFitFailed)
	}

	fitted := make([]float64, n)
	level, trend, _ := run(bestAlpha, bestBeta, fitted)

	return &smoothingModel{
		name:   "Exponential Trend",
		aic:    smoothingAIC(bestSSE, n, 4),
		fitted: fitted,
		project: func(step int) float64 {
			return level * math.Pow(trend, float64(step))
		},
	}, nil
}
