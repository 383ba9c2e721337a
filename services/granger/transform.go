package granger

import (
	"fmt"
	"math"
)

// LogReturns converts a price sequence to log returns: the first
// difference of the natural log. The output is one element shorter;
// the first observation has no defined return.
//
// Prices must be strictly positive; the log of a non-positive price
// is a domain error, and the whole pair's test fails rather than
// producing a silent zero.
func LogReturns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, fmt.Errorf("need at least 2 prices to compute returns, got %d", len(prices))
	}

	returns := make([]float64, len(prices)-1)
	prev := prices[0]
	if prev <= 0 {
		return nil, fmt.Errorf("non-positive price %v at position 0", prev)
	}
	for i := 1; i < len(prices); i++ {
		p := prices[i]
		if p <= 0 {
			return nil, fmt.Errorf("non-positive price %v at position %d", p, i)
		}
		returns[i-1] = math.Log(p) - math.Log(prev)
		prev = p
	}
	return returns, nil
}
