package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMAE(t *testing.T) {
	testData := map[string]struct {
		predicted []float64
		actual    []float64
		expected  float64
		err       error
	}{
		"exact fit": {
			predicted: []float64{1, 2, 3},
			actual:    []float64{1, 2, 3},
			expected:  0,
		},
		"uniform error": {
			predicted: []float64{2, 3, 4},
			actual:    []float64{1, 2, 3},
			expected:  1,
		},
		"mixed signs": {
			predicted: []float64{2, 1},
			actual:    []float64{1, 2},
			expected:  1,
		},
		"length mismatch": {
			predicted: []float64{1, 2},
			actual:    []float64{1, 2, 3},
			err:       ErrResLenMismatch,
		},
		"empty": {
			predicted: []float64{},
			actual:    []float64{},
			err:       ErrResLenMismatch,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			mae, err := MAE(td.predicted, td.actual)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.InDelta(t, td.expected, mae, 1e-12)
		})
	}
}

func TestMAPE(t *testing.T) {
	testData := map[string]struct {
		predicted []float64
		actual    []float64
		expected  float64
		err       error
	}{
		"exact fit": {
			predicted: []float64{100, 200},
			actual:    []float64{100, 200},
			expected:  0,
		},
		"ten percent off": {
			predicted: []float64{110, 220},
			actual:    []float64{100, 200},
			expected:  10,
		},
		"zero actual substitutes penalty": {
			predicted: []float64{1, 2, 3},
			actual:    []float64{0, 10, 20},
			expected:  MAPEPenalty,
		},
		"negative actual substitutes penalty": {
			predicted: []float64{1, 2},
			actual:    []float64{-5, 10},
			expected:  MAPEPenalty,
		},
		"length mismatch": {
			predicted: []float64{1},
			actual:    []float64{1, 2},
			err:       ErrResLenMismatch,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			mape, err := MAPE(td.predicted, td.actual)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.InDelta(t, td.expected, mape, 1e-12)
		})
	}
}

func TestResiduals(t *testing.T) {
	res, err := Residuals([]float64{1, 2, 3}, []float64{2, 2, 1})
	require.Nil(t, err)
	assert.Equal(t, []float64{1, 0, -2}, res)

	_, err = Residuals([]float64{1}, []float64{1, 2})
	require.ErrorIs(t, err, ErrResLenMismatch)
}

func TestPopStdDev(t *testing.T) {
	// population stddev of [2, 4, 4, 4, 5, 5, 7, 9] is exactly 2
	assert.InDelta(t, 2.0, PopStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
}
