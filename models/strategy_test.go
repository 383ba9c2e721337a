package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTargetType(t *testing.T) {
	target, err := ParseTargetType("stock")
	require.NoError(t, err)
	assert.Equal(t, TargetStock, target)

	target, err = ParseTargetType("Index")
	require.NoError(t, err)
	assert.Equal(t, TargetIndex, target)

	_, err = ParseTargetType("bond")
	assert.Error(t, err)
}

func TestConditionValueUnmarshalSingle(t *testing.T) {
	var v ConditionValue
	require.NoError(t, json.Unmarshal([]byte(`12.5`), &v))
	assert.False(t, v.Range)
	assert.Equal(t, 12.5, v.Single)
}

func TestConditionValueUnmarshalPair(t *testing.T) {
	var v ConditionValue
	require.NoError(t, json.Unmarshal([]byte(`[10, 20]`), &v))
	assert.True(t, v.Range)
	assert.Equal(t, [2]float64{10, 20}, v.Bounds)
}

func TestConditionValueUnmarshalRejectsBadShapes(t *testing.T) {
	var v ConditionValue
	assert.Error(t, json.Unmarshal([]byte(`[1, 2, 3]`), &v))
	assert.Error(t, json.Unmarshal([]byte(`"ten"`), &v))
}

func TestConditionValueMarshalRoundTrip(t *testing.T) {
	data, err := json.Marshal(ConditionValue{Single: 3.5})
	require.NoError(t, err)
	assert.JSONEq(t, `3.5`, string(data))

	data, err = json.Marshal(ConditionValue{Bounds: [2]float64{1, 2}, Range: true})
	require.NoError(t, err)
	assert.JSONEq(t, `[1, 2]`, string(data))
}

func validStrategy() Strategy {
	return Strategy{
		Name:   "momentum",
		Market: "sh",
		Logic:  LogicAnd,
		Conditions: []Condition{
			{Indicator: "close", Operator: OperatorGT, Value: ConditionValue{Single: 10}},
		},
	}
}

func TestValidateAcceptsValidStrategy(t *testing.T) {
	strat := validStrategy()
	assert.Empty(t, strat.Validate(TargetStock))
}

func TestValidateCollectsAllErrors(t *testing.T) {
	strat := Strategy{
		Name:   "",
		Market: "nyse",
		Logic:  "XOR",
		Conditions: []Condition{
			{Indicator: "pe_ratio", Operator: "~", Value: ConditionValue{Single: 1}},
		},
		MaxStocks: -1,
		SortBy:    "drop table",
		SortOrder: "sideways",
	}

	errs := strat.Validate(TargetStock)
	assert.GreaterOrEqual(t, len(errs), 7)
}

func TestValidateRequiresConditions(t *testing.T) {
	strat := validStrategy()
	strat.Conditions = nil
	errs := strat.Validate(TargetStock)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "at least one condition")
}

func TestValidateIndicatorAllowListPerTarget(t *testing.T) {
	strat := validStrategy()
	strat.Conditions[0].Indicator = "amplitude"

	// amplitude is an index column, not a stock column.
	assert.NotEmpty(t, strat.Validate(TargetStock))
	assert.Empty(t, strat.Validate(TargetIndex))
}

func TestValidateBetweenBounds(t *testing.T) {
	strat := validStrategy()
	strat.Conditions[0].Operator = OperatorBetween
	strat.Conditions[0].Value = ConditionValue{Bounds: [2]float64{20, 10}, Range: true}

	errs := strat.Validate(TargetStock)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "lower bound")
}

func TestValidateScalarOperatorRejectsPair(t *testing.T) {
	strat := validStrategy()
	strat.Conditions[0].Value = ConditionValue{Bounds: [2]float64{1, 2}, Range: true}

	errs := strat.Validate(TargetStock)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "single numeric value")
}

func TestValidateSortColumns(t *testing.T) {
	strat := validStrategy()

	strat.SortBy = "latest_price"
	assert.Empty(t, strat.Validate(TargetStock))

	strat.SortBy = "name"
	assert.NotEmpty(t, strat.Validate(TargetStock), "name is only projected for indices")

	strat.Conditions[0].Indicator = "close"
	assert.Empty(t, strat.Validate(TargetIndex))
}

func TestValidateNameLength(t *testing.T) {
	strat := validStrategy()
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}
	strat.Name = string(long)

	errs := strat.Validate(TargetStock)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "at most 100")
}
