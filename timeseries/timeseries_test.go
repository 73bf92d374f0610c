package timeseries

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	testData := map[string]struct {
		periods []int
		values  []float64
		err     error
	}{
		"valid": {
			periods: []int{2019, 2020, 2021},
			values:  []float64{10, 12, 11},
		},
		"no observations": {
			periods: []int{},
			values:  []float64{},
			err:     ErrNoObservations,
		},
		"length mismatch": {
			periods: []int{2019, 2020},
			values:  []float64{10, 12, 11},
			err:     ErrLenMismatch,
		},
		"duplicate period": {
			periods: []int{2019, 2019, 2021},
			values:  []float64{10, 12, 11},
			err:     ErrNonIncreasing,
		},
		"decreasing period": {
			periods: []int{2021, 2020, 2019},
			values:  []float64{10, 12, 11},
			err:     ErrNonIncreasing,
		},
		"nan value": {
			periods: []int{2019, 2020, 2021},
			values:  []float64{10, math.NaN(), 11},
			err:     ErrNonFiniteValue,
		},
		"infinite value": {
			periods: []int{2019, 2020, 2021},
			values:  []float64{10, math.Inf(1), 11},
			err:     ErrNonFiniteValue,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			s, err := New(td.periods, td.values)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, len(td.values), s.Len())
			assert.Equal(t, td.values[len(td.values)-1], s.Last())
		})
	}
}

func TestNewCopies(t *testing.T) {
	periods := []int{2019, 2020, 2021}
	values := []float64{10, 12, 11}
	s, err := New(periods, values)
	require.Nil(t, err)

	values[0] = 99
	assert.Equal(t, 10.0, s.Values[0])
}

func TestDiff(t *testing.T) {
	s, err := New([]int{2018, 2019, 2020, 2021}, []float64{10, 12, 11, 15})
	require.Nil(t, err)
	assert.Equal(t, []float64{2, -1, 4}, s.Diff())
}

func TestAllPositive(t *testing.T) {
	testData := map[string]struct {
		values   []float64
		expected bool
	}{
		"all positive": {
			values:   []float64{1, 2, 3},
			expected: true,
		},
		"contains zero": {
			values:   []float64{0, 2, 3},
			expected: false,
		},
		"contains negative": {
			values:   []float64{1, -2, 3},
			expected: false,
		},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			periods := make([]int, len(td.values))
			for i := range periods {
				periods[i] = 2019 + i
			}
			s, err := New(periods, td.values)
			require.Nil(t, err)
			assert.Equal(t, td.expected, s.AllPositive())
		})
	}
}

func TestNextPeriods(t *testing.T) {
	s, err := New([]int{2019, 2020, 2021}, []float64{10, 12, 11})
	require.Nil(t, err)
	assert.Equal(t, []int{2022, 2023, 2024}, s.NextPeriods(3))
}

func TestCopy(t *testing.T) {
	s, err := New([]int{2019, 2020, 2021}, []float64{10, 12, 11})
	require.Nil(t, err)

	c := s.Copy()
	c.Values[0] = 99
	assert.Equal(t, 10.0, s.Values[0])
}
