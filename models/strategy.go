package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TargetType selects which instrument universe a strategy runs against.
type TargetType string

const (
	TargetStock TargetType = "stock"
	TargetIndex TargetType = "index"
)

// ParseTargetType validates a caller-supplied target type.
func ParseTargetType(s string) (TargetType, error) {
	switch TargetType(strings.ToLower(s)) {
	case TargetStock:
		return TargetStock, nil
	case TargetIndex:
		return TargetIndex, nil
	default:
		return "", fmt.Errorf("unsupported target type %q, expected 'stock' or 'index'", s)
	}
}

// IndicatorType classifies a condition's indicator. Descriptive only;
// it does not affect compilation.
type IndicatorType string

const (
	IndicatorPrice       IndicatorType = "price"
	IndicatorVolume      IndicatorType = "volume"
	IndicatorTechnical   IndicatorType = "technical"
	IndicatorFundamental IndicatorType = "fundamental"
	IndicatorCustom      IndicatorType = "custom"
)

// ComparisonOperator is the comparison applied by a condition.
type ComparisonOperator string

const (
	OperatorGT         ComparisonOperator = ">"
	OperatorGTE        ComparisonOperator = ">="
	OperatorLT         ComparisonOperator = "<"
	OperatorLTE        ComparisonOperator = "<="
	OperatorEQ         ComparisonOperator = "=="
	OperatorNEQ        ComparisonOperator = "!="
	OperatorBetween    ComparisonOperator = "between"
	OperatorCrossAbove ComparisonOperator = "cross_above"
	OperatorCrossBelow ComparisonOperator = "cross_below"
)

func (o ComparisonOperator) known() bool {
	switch o {
	case OperatorGT, OperatorGTE, OperatorLT, OperatorLTE, OperatorEQ,
		OperatorNEQ, OperatorBetween, OperatorCrossAbove, OperatorCrossBelow:
		return true
	}
	return false
}

// TimeFrame is the sampling period of a condition. Only daily bars are
// stored, so weekly/monthly are accepted but not honored.
type TimeFrame string

const (
	TimeFrameDaily   TimeFrame = "daily"
	TimeFrameWeekly  TimeFrame = "weekly"
	TimeFrameMonthly TimeFrame = "monthly"
)

// LogicOperator combines the non-market conditions of a strategy.
type LogicOperator string

const (
	LogicAnd LogicOperator = "AND"
	LogicOr  LogicOperator = "OR"
)

// ConditionValue is either a single number or an ordered [low, high]
// pair (for the between operator). JSON accepts both shapes.
type ConditionValue struct {
	Single float64
	Bounds [2]float64
	Range  bool
}

// UnmarshalJSON accepts 12.5 or [10, 20].
func (v *ConditionValue) UnmarshalJSON(data []byte) error {
	var single float64
	if err := json.Unmarshal(data, &single); err == nil {
		*v = ConditionValue{Single: single}
		return nil
	}
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("condition value must be a number or a [low, high] pair")
	}
	if len(pair) != 2 {
		return fmt.Errorf("condition value list must have exactly 2 elements, got %d", len(pair))
	}
	*v = ConditionValue{Bounds: [2]float64{pair[0], pair[1]}, Range: true}
	return nil
}

// MarshalJSON mirrors the accepted input shapes.
func (v ConditionValue) MarshalJSON() ([]byte, error) {
	if v.Range {
		return json.Marshal([2]float64{v.Bounds[0], v.Bounds[1]})
	}
	return json.Marshal(v.Single)
}

// Condition is one indicator comparison used to filter instruments.
type Condition struct {
	Indicator     string             `json:"indicator"`
	IndicatorType IndicatorType      `json:"indicator_type"`
	Operator      ComparisonOperator `json:"operator"`
	Value         ConditionValue     `json:"value"`
	TimeFrame     TimeFrame          `json:"time_frame"`
	Days          int                `json:"days,omitempty"`
}

// Strategy is an ordered set of conditions plus combination logic and
// output shaping.
type Strategy struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Market      string        `json:"market"` // all, sh, sz, bj
	Conditions  []Condition   `json:"conditions"`
	Logic       LogicOperator `json:"logic"`
	MaxStocks   int           `json:"max_stocks,omitempty"`
	SortBy      string        `json:"sort_by,omitempty"`
	SortOrder   string        `json:"sort_order,omitempty"` // asc, desc
}

// stockColumns and indexColumns are the static allow-lists of
// identifiers a condition or sort key may reference. Anything outside
// these sets never reaches query text.
var stockColumns = map[string]bool{
	"open": true, "close": true, "high": true, "low": true,
	"volume": true, "amount": true, "outstanding_share": true, "turnover": true,
}

var indexColumns = map[string]bool{
	"open": true, "close": true, "high": true, "low": true,
	"volume": true, "amount": true, "amplitude": true,
	"change_rate": true, "change_amount": true, "turnover_rate": true,
}

// ValidColumn reports whether name is a known data column for the
// target universe.
func ValidColumn(target TargetType, name string) bool {
	if target == TargetIndex {
		return indexColumns[name]
	}
	return stockColumns[name]
}

// validSortColumn additionally admits the projected output columns.
func validSortColumn(target TargetType, name string) bool {
	if name == "symbol" || name == "latest_price" {
		return true
	}
	if target == TargetIndex && name == "name" {
		return true
	}
	return ValidColumn(target, name)
}

// Validate checks the strategy structurally and returns every problem
// found, so a caller can display all of them at once. An empty slice
// means the strategy is valid.
func (s *Strategy) Validate(target TargetType) []string {
	var errs []string

	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, "strategy name must not be empty")
	} else if len(s.Name) > 100 {
		errs = append(errs, "strategy name must be at most 100 characters")
	}

	switch s.Market {
	case "", "all", "sh", "sz", "bj":
	default:
		errs = append(errs, fmt.Sprintf("market must be one of all/sh/sz/bj, got %q", s.Market))
	}

	switch s.Logic {
	case "", LogicAnd, LogicOr:
	default:
		errs = append(errs, fmt.Sprintf("logic must be AND or OR, got %q", s.Logic))
	}

	if len(s.Conditions) == 0 {
		errs = append(errs, "at least one condition is required")
	}

	for i, cond := range s.Conditions {
		label := fmt.Sprintf("condition %d", i+1)

		if strings.TrimSpace(cond.Indicator) == "" {
			errs = append(errs, label+": indicator must not be empty")
		} else if !ValidColumn(target, cond.Indicator) {
			errs = append(errs, fmt.Sprintf("%s: unknown indicator %q", label, cond.Indicator))
		}

		if !cond.Operator.known() {
			errs = append(errs, fmt.Sprintf("%s: unknown operator %q", label, cond.Operator))
		}

		if cond.Operator == OperatorBetween {
			if !cond.Value.Range {
				errs = append(errs, label+": between requires a [low, high] value pair")
			} else if cond.Value.Bounds[0] >= cond.Value.Bounds[1] {
				errs = append(errs, label+": between lower bound must be less than upper bound")
			}
		} else if cond.Value.Range {
			errs = append(errs, fmt.Sprintf("%s: operator %q requires a single numeric value", label, cond.Operator))
		}

		switch cond.TimeFrame {
		case "", TimeFrameDaily, TimeFrameWeekly, TimeFrameMonthly:
		default:
			errs = append(errs, fmt.Sprintf("%s: unknown time frame %q", label, cond.TimeFrame))
		}

		if cond.Days < 0 {
			errs = append(errs, label+": days must be positive")
		}
	}

	if s.MaxStocks < 0 {
		errs = append(errs, "max_stocks must be positive")
	}

	if s.SortBy != "" && !validSortColumn(target, s.SortBy) {
		errs = append(errs, fmt.Sprintf("unknown sort column %q", s.SortBy))
	}

	switch s.SortOrder {
	case "", "asc", "desc":
	default:
		errs = append(errs, fmt.Sprintf("sort_order must be asc or desc, got %q", s.SortOrder))
	}

	return errs
}

// MatchDetail echoes what one condition tested. It records the
// condition definition, not the per-row boolean outcome: the compiled
// query only reports overall membership.
type MatchDetail struct {
	Indicator string             `json:"indicator"`
	Operator  ComparisonOperator `json:"operator"`
	Value     ConditionValue     `json:"value"`
}

// ScreeningResultItem is one matching instrument.
type ScreeningResultItem struct {
	Symbol       string                 `json:"symbol"`
	Name         string                 `json:"name,omitempty"`
	LatestPrice  float64                `json:"latest_price"`
	MatchDetails map[string]MatchDetail `json:"match_details"`
}

// ScreeningResult is the outcome of executing a strategy.
type ScreeningResult struct {
	StrategyName  string                `json:"strategy_name"`
	Total         int                   `json:"total"`
	Items         []ScreeningResultItem `json:"items"`
	ExecutionTime float64               `json:"execution_time"`
}
