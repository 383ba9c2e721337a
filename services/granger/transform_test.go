package granger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogReturns(t *testing.T) {
	returns, err := LogReturns([]float64{100, 110, 121})
	require.NoError(t, err)
	require.Len(t, returns, 2)
	assert.InDelta(t, math.Log(1.1), returns[0], 1e-12)
	assert.InDelta(t, math.Log(1.1), returns[1], 1e-12)
}

func TestLogReturnsTooShort(t *testing.T) {
	_, err := LogReturns([]float64{100})
	assert.Error(t, err)

	_, err = LogReturns(nil)
	assert.Error(t, err)
}

func TestLogReturnsRejectsNonPositivePrices(t *testing.T) {
	_, err := LogReturns([]float64{100, 0, 110})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "position 1")

	_, err = LogReturns([]float64{-5, 100})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "position 0")
}
