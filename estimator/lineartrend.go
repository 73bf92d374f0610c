package estimator

import (
	"fmt"
	"math"

	"github.com/ensemblecast/ensemblecast/stats"
	"github.com/ensemblecast/ensemblecast/timeseries"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LinearTrend fits ordinary least squares against the integer observation
// index and extrapolates the line. It is the guaranteed terminal fallback:
// it succeeds for any series with at least one finite observation.
func LinearTrend(series *timeseries.Series, horizon int) (*Result, error) {
	if horizon < 1 {
		return nil, ErrInvalidHorizon
	}
	if series == nil || series.Len() < 1 {
		return nil, ErrInsufficientData
	}

	n := series.Len()
	y := series.Values

	intercept, slope, err := indexOLS(y)
	if err != nil {
		return nil, fmt.Errorf("unable to fit trend line, %w", ErrFitFailed)
	}

	fitted := make([]float64, n)
	for i := 0; i < n; i++ {
		fitted[i] = intercept + slope*float64(i)
	}
	residuals, err := stats.Residuals(fitted, y)
	if err != nil {
		return nil, fmt.Errorf("unable to compute trend residuals, %w", ErrFitFailed)
	}
	stdErr := stats.PopStdDev(residuals)

	forecasts := make([]float64, 0, horizon)
	lower := make([]float64, 0, horizon)
	upper := make([]float64, 0, horizon)
	for i := 0; i < horizon; i++ {
		forecast := math.Max(intercept+slope*float64(n+i), 0)
		forecasts = append(forecasts, forecast)
		lower = append(lower, math.Max(forecast-Zscore95*stdErr, 0))
		upper = append(upper, forecast+Zscore95*stdErr)
	}

	mae, mape, err := scoreFit(fitted, y)
	if err != nil {
		return nil, fmt.Errorf("unable to score trend fit, %w", ErrFitFailed)
	}

	return &Result{
		Method:       "Linear Trend (Fallback)",
		Forecasts:    forecasts,
		LowerBounds:  lower,
		UpperBounds:  upper,
		FittedValues: fitted,
		MAE:          mae,
		MAPE:         mape,
	}, nil
}

// indexOLS regresses y against its 0-based index by QR factorization with a
// stacked ones column for the intercept.
func indexOLS(y []float64) (float64, float64, error) {
	n := len(y)
	if n == 1 {
		return y[0], 0, nil
	}

	ones := make([]float64, n)
	floats.AddConst(1.0, ones)
	idx := make([]float64, n)
	for i := range idx {
		idx[i] = float64(i)
	}

	x := mat.NewDense(n, 2, nil)
	x.SetCol(0, ones)
	x.SetCol(1, idx)
	yMx := mat.NewDense(n, 1, append([]float64{}, y...))

	qr := new(mat.QR)
	qr.Factorize(x)

	q := new(mat.Dense)
	r := new(mat.Dense)
	qr.QTo(q)
	qr.RTo(r)

	yq := new(mat.Dense)
	yq.Mul(yMx.T(), q)

	c := make([]float64, 2)
	for i := 1; i >= 0; i-- {
		c[i] = yq.At(0, i)
		for j := i + 1; j < 2; j++ {
			c[i] -= c[j] * r.At(i, j)
		}
		rii := r.At(i, i)
		if rii == 0 {
			return 0, 0, ErrFitFailed
		}
		c[i] /= rii
	}

	if math.IsNaN(c[0]) || math.IsNaN(c[1]) {
		return 0, 0, ErrFitFailed
	}
	return c[0], c[1], nil
}
