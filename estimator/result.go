// Package estimator implements the individual forecasting families combined
// by the ensemble: random walk with drift, exponential smoothing with shape
// selection, an ARIMA order search, and the linear trend fallback. Each
// estimator is a pure function of a series and a horizon, returning either a
// Result or an error the combiner treats as a skipped member.
package estimator

import (
	"fmt"

	"github.com/ensemblecast/ensemblecast/stats"
)

// Zscore95 is the normal z-score bounding a two-sided 95% interval.
const Zscore95 = 1.96

// Result is a single estimator's forecast along with its in-sample
// reconstruction and error metrics. Forecasts and LowerBounds are floored at
// zero. FittedValues may be shorter than the input series for differencing
// models and always aligns with the series tail.
type Result struct {
	Method       string    `json:"method"`
	Forecasts    []float64 `json:"forecasts"`
	LowerBounds  []float64 `json:"lower_bounds"`
	UpperBounds  []float64 `json:"upper_bounds"`
	FittedValues []float64 `json:"fitted_values"`
	MAE          float64   `json:"mae"`
	MAPE         float64   `json:"mape"`
	AIC          float64   `json:"aic,omitempty"`
	Order        *Order    `json:"order,omitempty"`
}

// Order is an ARIMA (p,d,q) specification.
type Order struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`
}

func (o Order) String() string {
	return fmt.Sprintf("(%d,%d,%d)", o.P, o.D, o.Q)
}

// scoreFit computes the MAE and MAPE of a fitted reconstruction against the
// actual values it aligns with.
func scoreFit(fitted, actual []float64) (float64, float64, error) {
	mae, err := stats.MAE(fitted, actual)
	if err != nil {
		return 0, 0, fmt.Errorf("unable to compute mean absolute error, %w", err)
	}
	mape, err := stats.MAPE(fitted, actual)
	if err != nil {
		return 0, 0, fmt.Errorf("unable to compute mean absolute percentage error, %w", err)
	}
	return mae, mape, nil
}
