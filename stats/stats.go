// Package stats provides the error metrics and moment helpers shared by the
// forecasting estimators.
package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

var ErrResLenMismatch = errors.New("predicted and actual have different lengths")

// MAPEPenalty is substituted for the mean absolute percentage error whenever
// any actual value is zero or negative, where the metric is undefined.
const MAPEPenalty = 50.0

// MAE computes the mean absolute error between predicted and actual values.
func MAE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, ErrResLenMismatch
	}
	if len(actual) == 0 {
		return 0, ErrResLenMismatch
	}

	mae := 0.0
	for i := 0; i < len(actual); i++ {
		mae += math.Abs(actual[i] - predicted[i])
	}
	mae /= float64(len(actual))
	return mae, nil
}

// MAPE computes the mean absolute percentage error between predicted and
// actual values, expressed as a percentage. When any actual value is not
// strictly positive the metric is undefined and MAPEPenalty is returned
// instead.
func MAPE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, ErrResLenMismatch
	}
	if len(actual) == 0 {
		return 0, ErrResLenMismatch
	}

	for _, a := range actual {
		if a <= 0 {
			return MAPEPenalty, nil
		}
	}

	mape := 0.0
	for i := 0; i < len(actual); i++ {
		mape += math.Abs((actual[i] - predicted[i]) / actual[i])
	}
	mape /= float64(len(actual))
	return mape * 100.0, nil
}

// Residuals returns actual minus predicted.
func Residuals(predicted, actual []float64) ([]float64, error) {
	if len(predicted) != len(actual) {
		return nil, ErrResLenMismatch
	}
	res := make([]float64, len(actual))
	for i := range actual {
		res[i] = actual[i] - predicted[i]
	}
	return res, nil
}

// MeanStdDev returns the mean and the corrected sample standard deviation.
func MeanStdDev(x []float64) (float64, float64) {
	return stat.MeanStdDev(x, nil)
}

// StdDev returns the corrected sample standard deviation.
func StdDev(x []float64) float64 {
	return stat.StdDev(x, nil)
}

// PopStdDev returns the uncorrected population standard deviation, the form
// used for residual-based confidence intervals.
func PopStdDev(x []float64) float64 {
	return stat.PopStdDev(x, nil)
}
