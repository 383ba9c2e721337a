package strategy

import (
	"fmt"

	"github.com/edu-bd/StockVisualizer/models"
)

// CompiledCondition is one predicate fragment plus its named parameter
// bindings. Clauses reference parameters with gorm's @name syntax so
// values never appear in query text.
type CompiledCondition struct {
	Clause string
	Params map[string]interface{}
}

// compileCondition turns one condition into a parameterized SQL
// fragment. idx keeps parameter names unique across sibling
// conditions; alias qualifies the indicator column ("s" for stocks,
// "i" for indices). The indicator itself was validated against the
// column allow-list before compilation, so interpolating it here is
// safe.
//
// cross_above / cross_below compile to plain > / < thresholds. This is
// an approximation, not a true crossover test against the previous
// bar.
func compileCondition(cond models.Condition, idx int, alias string) (CompiledCondition, error) {
	column := fmt.Sprintf("%s.%s", alias, cond.Indicator)
	params := map[string]interface{}{}

	name := fmt.Sprintf("cond%d", idx)

	var clause string
	switch cond.Operator {
	case models.OperatorGT, models.OperatorCrossAbove:
		clause = fmt.Sprintf("%s > @%s", column, name)
	case models.OperatorGTE:
		clause = fmt.Sprintf("%s >= @%s", column, name)
	case models.OperatorLT, models.OperatorCrossBelow:
		clause = fmt.Sprintf("%s < @%s", column, name)
	case models.OperatorLTE:
		clause = fmt.Sprintf("%s <= @%s", column, name)
	case models.OperatorEQ:
		clause = fmt.Sprintf("%s = @%s", column, name)
	case models.OperatorNEQ:
		clause = fmt.Sprintf("%s != @%s", column, name)
	case models.OperatorBetween:
		if !cond.Value.Range {
			return CompiledCondition{}, fmt.Errorf("condition %d: between requires a [low, high] value pair", idx+1)
		}
		clause = fmt.Sprintf("%s BETWEEN @%s_low AND @%s_high", column, name, name)
		params[name+"_low"] = cond.Value.Bounds[0]
		params[name+"_high"] = cond.Value.Bounds[1]
		return CompiledCondition{Clause: clause, Params: params}, nil
	default:
		// Unknown operators compile to a tautology rather than an
		// error: the condition becomes a no-op filter.
		return CompiledCondition{Clause: "1=1", Params: params}, nil
	}

	if cond.Value.Range {
		return CompiledCondition{}, fmt.Errorf("condition %d: operator %q requires a single numeric value", idx+1, cond.Operator)
	}
	params[name] = cond.Value.Single

	// TimeFrame other than daily and Days > 1 would need resampling
	// and consecutive-bar checks; neither adds a predicate today.
	return CompiledCondition{Clause: clause, Params: params}, nil
}

// marketClause returns the symbol-prefix predicate for a market, or ""
// for the whole universe. Stock and index symbols follow different
// prefix conventions per exchange segment.
func marketClause(target models.TargetType, market string, alias string) string {
	col := alias + ".symbol"
	if target == models.TargetIndex {
		switch market {
		case "sh":
			return fmt.Sprintf("(%s LIKE '00%%' OR %s LIKE '88%%')", col, col)
		case "sz":
			return fmt.Sprintf("(%s LIKE '39%%')", col)
		case "bj":
			return fmt.Sprintf("(%s LIKE '89%%')", col)
		}
		return ""
	}
	switch market {
	case "sh":
		return fmt.Sprintf("(%s LIKE '60%%' OR %s LIKE '68%%')", col, col)
	case "sz":
		return fmt.Sprintf("(%s LIKE '00%%' OR %s LIKE '30%%')", col, col)
	case "bj":
		return fmt.Sprintf("(%s LIKE '43%%' OR %s LIKE '83%%' OR %s LIKE '87%%')", col, col, col)
	}
	return ""
}
