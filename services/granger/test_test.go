package granger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noiseSeries produces a deterministic pseudo-random sequence in
// (-0.5, 0.5) via a small linear congruential generator.
func noiseSeries(seed uint64, n int) []float64 {
	out := make([]float64, n)
	state := seed
	for i := range out {
		state = state*6364136223846793005 + 1442695040888963407
		out[i] = float64(state>>11)/float64(1<<53) - 0.5
	}
	return out
}

func TestRunTestDetectsLaggedDependence(t *testing.T) {
	n := 200
	x := noiseSeries(1, n)
	z := noiseSeries(2, n)

	// y follows x with a one-day lag plus a little independent noise.
	y := make([]float64, n)
	for i := 1; i < n; i++ {
		y[i] = 0.8*x[i-1] + 0.01*z[i]
	}
	y[0] = 0.01 * z[0]

	result := RunTest(x, y, 3, 0.05)
	require.Empty(t, result.Error)
	require.Len(t, result.Lags, 3)

	assert.True(t, result.Conclusion.HasCausality)
	assert.Contains(t, result.Conclusion.SignificantLags, 1)
	require.NotNil(t, result.Conclusion.MinPValue)
	assert.Less(t, *result.Conclusion.MinPValue, 0.05)

	for i, lag := range result.Lags {
		assert.Equal(t, i+1, lag.Lag)
		assert.GreaterOrEqual(t, lag.FValue, 0.0)
		assert.GreaterOrEqual(t, lag.PValue, 0.0)
		assert.LessOrEqual(t, lag.PValue, 1.0)
	}
}

func TestRunTestIsDeterministic(t *testing.T) {
	x := noiseSeries(3, 120)
	y := noiseSeries(4, 120)

	first := RunTest(x, y, 5, 0.05)
	second := RunTest(x, y, 5, 0.05)
	require.Empty(t, first.Error)
	require.Len(t, first.Lags, 5)

	for i := range first.Lags {
		assert.Equal(t, first.Lags[i].FValue, second.Lags[i].FValue)
		assert.Equal(t, first.Lags[i].PValue, second.Lags[i].PValue)
	}
}

func TestRunTestMinPValueMatchesLags(t *testing.T) {
	x := noiseSeries(5, 150)
	y := noiseSeries(6, 150)

	result := RunTest(x, y, 4, 0.05)
	require.Empty(t, result.Error)
	require.NotNil(t, result.Conclusion.MinPValue)

	min := math.Inf(1)
	for _, lag := range result.Lags {
		if lag.PValue < min {
			min = lag.PValue
		}
	}
	assert.Equal(t, min, *result.Conclusion.MinPValue)
}

func TestRunTestInsufficientObservations(t *testing.T) {
	x := noiseSeries(7, 16)
	y := noiseSeries(8, 16)

	// 3*5+1 = 16: exactly at the bound fails.
	result := RunTest(x, y, 5, 0.05)
	assert.NotEmpty(t, result.Error)
	assert.False(t, result.Conclusion.HasCausality)
	assert.Empty(t, result.Conclusion.SignificantLags)
	assert.Nil(t, result.Conclusion.MinPValue)
	assert.Empty(t, result.Lags)
}

func TestRunTestConstantSeries(t *testing.T) {
	x := make([]float64, 100)
	y := noiseSeries(9, 100)

	result := RunTest(x, y, 2, 0.05)
	assert.NotEmpty(t, result.Error)
	assert.False(t, result.Conclusion.HasCausality)
	assert.Nil(t, result.Conclusion.MinPValue)
}

func TestRunTestLengthMismatch(t *testing.T) {
	result := RunTest(noiseSeries(10, 100), noiseSeries(11, 99), 2, 0.05)
	assert.NotEmpty(t, result.Error)
}

func TestRunTestInvalidMaxLag(t *testing.T) {
	x := noiseSeries(12, 100)
	y := noiseSeries(13, 100)
	result := RunTest(x, y, 0, 0.05)
	assert.NotEmpty(t, result.Error)
}
