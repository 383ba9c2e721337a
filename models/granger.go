package models

import "fmt"

// TestDirection selects which causal directions a request tests.
type TestDirection string

const (
	DirectionStockToIndex TestDirection = "stock_to_index"
	DirectionIndexToStock TestDirection = "index_to_stock"
	DirectionBoth         TestDirection = "both"
)

// CausalityRequest asks for Granger causality tests between one stock
// and every known market index.
type CausalityRequest struct {
	StockSymbol       string        `json:"stock_symbol" binding:"required"`
	MaxLag            int           `json:"max_lag"`
	TestDirection     TestDirection `json:"test_direction"`
	SignificanceLevel float64       `json:"significance_level"`
	ExcludeSuspension *bool         `json:"exclude_suspension"`
}

// Normalize applies defaults and validates ranges. Defaults match the
// request model of the public API: max_lag 5, direction both,
// significance 0.05, suspension days excluded.
func (r *CausalityRequest) Normalize() error {
	if r.MaxLag == 0 {
		r.MaxLag = 5
	}
	if r.MaxLag < 1 || r.MaxLag > 20 {
		return fmt.Errorf("max_lag must be between 1 and 20, got %d", r.MaxLag)
	}
	if r.TestDirection == "" {
		r.TestDirection = DirectionBoth
	}
	switch r.TestDirection {
	case DirectionStockToIndex, DirectionIndexToStock, DirectionBoth:
	default:
		return fmt.Errorf("unknown test_direction %q", r.TestDirection)
	}
	if r.SignificanceLevel == 0 {
		r.SignificanceLevel = 0.05
	}
	if r.SignificanceLevel <= 0 || r.SignificanceLevel >= 1 {
		return fmt.Errorf("significance_level must be in (0, 1), got %v", r.SignificanceLevel)
	}
	return nil
}

// ExcludeSuspensionDays resolves the optional flag (default true).
func (r *CausalityRequest) ExcludeSuspensionDays() bool {
	if r.ExcludeSuspension == nil {
		return true
	}
	return *r.ExcludeSuspension
}

// WantsDirection reports whether the request covers the direction.
func (r *CausalityRequest) WantsDirection(d TestDirection) bool {
	return r.TestDirection == d || r.TestDirection == DirectionBoth
}

// PerLagResult is the F-test outcome for a single lag order.
type PerLagResult struct {
	Lag           int     `json:"lag"`
	FValue        float64 `json:"f_value"`
	PValue        float64 `json:"p_value"`
	IsSignificant bool    `json:"is_significant"`
}

// CausalityVerdict aggregates the per-lag outcomes. MinPValue is null
// when every lag failed.
type CausalityVerdict struct {
	HasCausality    bool     `json:"has_causality"`
	SignificantLags []int    `json:"significant_lags"`
	MinPValue       *float64 `json:"min_p_value"`
}

// CausalityTestResult is the outcome for one direction of one stock /
// index pair. Lags is ordered ascending by lag number. A non-empty
// Error means the whole batch failed and Conclusion carries the
// default (no causality) verdict.
type CausalityTestResult struct {
	Lags       []PerLagResult   `json:"lags,omitempty"`
	Conclusion CausalityVerdict `json:"conclusion"`
	Error      string           `json:"error,omitempty"`
}

// CausalityResultItem carries the tested directions for one index.
type CausalityResultItem struct {
	IndexSymbol        string               `json:"index_symbol"`
	IndexName          string               `json:"index_name"`
	StockToIndexResult *CausalityTestResult `json:"stock_to_index_result,omitempty"`
	IndexToStockResult *CausalityTestResult `json:"index_to_stock_result,omitempty"`
}

// CausalityResponse is the full batch response.
type CausalityResponse struct {
	StockSymbol       string                `json:"stock_symbol"`
	StockName         string                `json:"stock_name,omitempty"`
	MaxLag            int                   `json:"max_lag"`
	SignificanceLevel float64               `json:"significance_level"`
	Results           []CausalityResultItem `json:"results"`
	ExecutionTime     float64               `json:"execution_time"`
}
