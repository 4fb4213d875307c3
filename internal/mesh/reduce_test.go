package mesh

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduce_ExactOutputLength(t *testing.T) {
	cases := []struct {
		name string
		n    int
		cols int
	}{
		{"more bins than columns", 128, 32},
		{"equal", 16, 16},
		{"fewer bins than columns", 3, 8},
		{"single column", 100, 1},
		{"empty spectrum", 0, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spectrum := make([]float64, tc.n)
			for i := range spectrum {
				spectrum[i] = float64(i)
			}
			out := Reduce(spectrum, tc.cols)
			assert.Len(t, out, tc.cols)
		})
	}
}

func TestReduce_ZeroColumns(t *testing.T) {
	assert.Empty(t, Reduce([]float64{1, 2, 3}, 0))
	assert.Empty(t, Reduce([]float64{1, 2, 3}, -1))
}

func TestReduce_EmptySpectrumYieldsZeros(t *testing.T) {
	out := Reduce(nil, 5)
	require.Len(t, out, 5)
	for _, v := range out {
		assert.Zero(t, v)
	}
}

func TestReduce_BlockAverage(t *testing.T) {
	// 10 bins into 3 columns: slices are [0,3), [3,6), [6,10).
	spectrum := []float64{1, 1, 1, 2, 2, 2, 4, 4, 4, 4}
	out := Reduce(spectrum, 3)
	require.Len(t, out, 3)
	assert.InDelta(t, 1.0, out[0], 1e-12)
	assert.InDelta(t, 2.0, out[1], 1e-12)
	assert.InDelta(t, 4.0, out[2], 1e-12)
}

func TestReduce_OutputWithinInputBounds(t *testing.T) {
	spectrum := []float64{0.3, 0.9, 0.1, 0.7, 0.5, 0.2, 0.8, 0.4}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range spectrum {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	for cols := 1; cols <= len(spectrum); cols++ {
		out := Reduce(spectrum, cols)
		require.Len(t, out, cols)
		for i, v := range out {
			assert.GreaterOrEqual(t, v, lo, "cols=%d col=%d", cols, i)
			assert.LessOrEqual(t, v, hi, "cols=%d col=%d", cols, i)
		}
	}
}

func TestReduce_ShortSpectrumEmptySlicesAreZero(t *testing.T) {
	// 2 bins into 5 columns: some proportional slices contain no bins.
	out := Reduce([]float64{3, 3}, 5)
	require.Len(t, out, 5)
	sawZero := false
	for _, v := range out {
		if v == 0 {
			sawZero = true
			continue
		}
		assert.InDelta(t, 3.0, v, 1e-12)
	}
	assert.True(t, sawZero, "expected at least one empty slice")
}

func TestReduceInto_ReusesBuffer(t *testing.T) {
	dst := make([]float64, 4)
	ReduceInto(dst, []float64{2, 2, 2, 2, 2, 2, 2, 2})
	for _, v := range dst {
		assert.InDelta(t, 2.0, v, 1e-12)
	}

	// A second call with an empty spectrum must clear the buffer.
	ReduceInto(dst, nil)
	for _, v := range dst {
		assert.Zero(t, v)
	}
}
