// Package timeseries holds the annual observation container consumed by the
// forecasting engine. A Series pairs a strictly increasing integer period,
// typically a calendar year, with an observed value.
package timeseries

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNoObservations = errors.New("no observations")
	ErrLenMismatch    = errors.New("periods have a different length than values")
	ErrNonIncreasing  = errors.New("periods are not strictly increasing")
	ErrNonFiniteValue = errors.New("observed value is not finite")
)

// Series is an ordered univariate series of annual observations. The engine
// treats a Series as immutable input; construction copies the provided slices.
type Series struct {
	Periods []int
	Values  []float64
}

// New validates and copies the provided periods and values into a Series.
// Periods must be strictly increasing and every value must be finite.
func New(periods []int, values []float64) (*Series, error) {
	if len(values) == 0 {
		return nil, ErrNoObservations
	}
	if len(periods) != len(values) {
		return nil, fmt.Errorf(
			"periods has length of %d, but values has a length of %d, %w",
			len(periods), len(values), ErrLenMismatch,
		)
	}

	for i := 1; i < len(periods); i++ {
		if periods[i] <= periods[i-1] {
			return nil, fmt.Errorf("non-increasing period at %d, %w", i, ErrNonIncreasing)
		}
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("value at %d is %f, %w", i, v, ErrNonFiniteValue)
		}
	}

	p := make([]int, len(periods))
	y := make([]float64, len(values))
	copy(p, periods)
	copy(y, values)
	return &Series{
		Periods: p,
		Values:  y,
	}, nil
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return len(s.Values)
}

// Last returns the most recent observed value.
func (s *Series) Last() float64 {
	return s.Values[len(s.Values)-1]
}

// Diff returns the first differences of the observed values with a length of
// Len()-1.
func (s *Series) Diff() []float64 {
	if s.Len() < 2 {
		return nil
	}
	d := make([]float64, s.Len()-1)
	for i := 1; i < s.Len(); i++ {
		d[i-1] = s.Values[i] - s.Values[i-1]
	}
	return d
}

// AllPositive reports whether every observed value is strictly greater than
// zero.
func (s *Series) AllPositive() bool {
	for _, v := range s.Values {
		if v <= 0 {
			return false
		}
	}
	return true
}

func (s *Series) Copy() *Series {
	p := make([]int, len(s.Periods))
	y := make([]float64, len(s.Values))
	copy(p, s.Periods)
	copy(y, s.Values)
	return &Series{
		Periods: p,
		Values:  y,
	}
}

// NextPeriods returns the n periods immediately following the last observed
// period, assuming the observed spacing continues. With a single observation
// the spacing defaults to 1.
func (s *Series) NextPeriods(n int) []int {
	step := 1
	if len(s.Periods) > 1 {
		step = s.Periods[1] - s.Periods[0]
	}
	last := s.Periods[len(s.Periods)-1]
	next := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		next = append(next, last+i*step)
	}
	return next
}
