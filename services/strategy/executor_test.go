package strategy

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/edu-bd/StockVisualizer/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.MigrateMarketModels(db))
	return db
}

func day(offset int) time.Time {
	return time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func seedStock(t *testing.T, db *gorm.DB, symbol string, closes ...float64) {
	t.Helper()
	for i, close := range closes {
		bar := models.StockDaily{
			Symbol: symbol,
			Date:   day(i),
			Open:   decimal.NewFromFloat(close),
			Close:  decimal.NewFromFloat(close),
			High:   decimal.NewFromFloat(close),
			Low:    decimal.NewFromFloat(close),
			Volume: 1000,
		}
		require.NoError(t, db.Create(&bar).Error)
	}
}

func seedIndex(t *testing.T, db *gorm.DB, symbol, name string, closes ...float64) {
	t.Helper()
	for i, close := range closes {
		bar := models.IndexDaily{
			Symbol: symbol,
			Name:   name,
			Date:   day(i),
			Open:   decimal.NewFromFloat(close),
			Close:  decimal.NewFromFloat(close),
			High:   decimal.NewFromFloat(close),
			Low:    decimal.NewFromFloat(close),
			Volume: 1000,
		}
		require.NoError(t, db.Create(&bar).Error)
	}
}

func TestExecuteFiltersByConditionAndMarket(t *testing.T) {
	db := openTestDB(t)
	seedStock(t, db, "600000", 11, 12) // sh, latest 12
	seedStock(t, db, "000001", 20, 25) // sz, latest 25
	seedStock(t, db, "688001", 5, 6)   // sh, latest 6

	svc := NewScreeningService(db)
	strat := &models.Strategy{
		Name:   "sh closers above 10",
		Market: "sh",
		Logic:  models.LogicAnd,
		Conditions: []models.Condition{
			{Indicator: "close", Operator: models.OperatorGT, Value: models.ConditionValue{Single: 10}},
		},
	}

	result, err := svc.Execute(strat, models.TargetStock)
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "600000", result.Items[0].Symbol)
	assert.Equal(t, 12.0, result.Items[0].LatestPrice)
	assert.GreaterOrEqual(t, result.ExecutionTime, 0.0)
}

func TestExecuteBoundaryComparisonSemantics(t *testing.T) {
	db := openTestDB(t)
	seedStock(t, db, "600000", 10) // exactly at the threshold

	svc := NewScreeningService(db)
	run := func(op models.ComparisonOperator) int {
		strat := &models.Strategy{
			Name:  "boundary",
			Logic: models.LogicAnd,
			Conditions: []models.Condition{
				{Indicator: "close", Operator: op, Value: models.ConditionValue{Single: 10}},
			},
		}
		result, err := svc.Execute(strat, models.TargetStock)
		require.NoError(t, err)
		return result.Total
	}

	assert.Equal(t, 0, run(models.OperatorGT), "> excludes equality")
	assert.Equal(t, 1, run(models.OperatorGTE), ">= includes equality")
	assert.Equal(t, 0, run(models.OperatorLT), "< excludes equality")
	assert.Equal(t, 1, run(models.OperatorLTE), "<= includes equality")
	assert.Equal(t, 1, run(models.OperatorEQ))
	assert.Equal(t, 0, run(models.OperatorNEQ))
}

func TestExecuteMarketScopeIsAlwaysConjoined(t *testing.T) {
	db := openTestDB(t)
	seedStock(t, db, "600000", 12) // sh
	seedStock(t, db, "000001", 8)  // sz

	svc := NewScreeningService(db)

	// OR logic between conditions must not widen the market scope:
	// the sz stock satisfies close < 9 but is outside the sh market.
	strat := &models.Strategy{
		Name:   "or logic stays market scoped",
		Market: "sh",
		Logic:  models.LogicOr,
		Conditions: []models.Condition{
			{Indicator: "close", Operator: models.OperatorLT, Value: models.ConditionValue{Single: 9}},
			{Indicator: "close", Operator: models.OperatorGT, Value: models.ConditionValue{Single: 100}},
		},
	}

	result, err := svc.Execute(strat, models.TargetStock)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
}

func TestExecuteLatestPriceUsesMostRecentBar(t *testing.T) {
	db := openTestDB(t)
	seedStock(t, db, "600000", 50, 40, 30) // latest is 30

	svc := NewScreeningService(db)
	strat := &models.Strategy{
		Name:  "any",
		Logic: models.LogicAnd,
		Conditions: []models.Condition{
			{Indicator: "close", Operator: models.OperatorGT, Value: models.ConditionValue{Single: 0}},
		},
	}

	result, err := svc.Execute(strat, models.TargetStock)
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, 30.0, result.Items[0].LatestPrice)
}

func TestExecuteSortAndLimit(t *testing.T) {
	db := openTestDB(t)
	seedStock(t, db, "600000", 12)
	seedStock(t, db, "600001", 25)
	seedStock(t, db, "600002", 18)

	svc := NewScreeningService(db)
	strat := &models.Strategy{
		Name:   "top two by price",
		Market: "sh",
		Logic:  models.LogicAnd,
		Conditions: []models.Condition{
			{Indicator: "close", Operator: models.OperatorGT, Value: models.ConditionValue{Single: 0}},
		},
		SortBy:    "latest_price",
		SortOrder: "desc",
		MaxStocks: 2,
	}

	result, err := svc.Execute(strat, models.TargetStock)
	require.NoError(t, err)
	require.Equal(t, 2, result.Total)
	assert.Equal(t, "600001", result.Items[0].Symbol)
	assert.Equal(t, "600002", result.Items[1].Symbol)
}

func TestExecuteIndexTargetIncludesName(t *testing.T) {
	db := openTestDB(t)
	seedIndex(t, db, "000001", "SSE Composite", 3000, 3100)
	seedIndex(t, db, "399001", "SZSE Component", 10000, 9900)

	svc := NewScreeningService(db)
	strat := &models.Strategy{
		Name:   "sh indices",
		Market: "sh",
		Logic:  models.LogicAnd,
		Conditions: []models.Condition{
			{Indicator: "close", Operator: models.OperatorGT, Value: models.ConditionValue{Single: 0}},
		},
	}

	result, err := svc.Execute(strat, models.TargetIndex)
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "000001", result.Items[0].Symbol)
	assert.Equal(t, "SSE Composite", result.Items[0].Name)
}

func TestExecuteMatchDetailsEchoConditions(t *testing.T) {
	db := openTestDB(t)
	seedStock(t, db, "600000", 12)

	svc := NewScreeningService(db)
	strat := &models.Strategy{
		Name:  "detail echo",
		Logic: models.LogicAnd,
		Conditions: []models.Condition{
			{Indicator: "close", Operator: models.OperatorGT, Value: models.ConditionValue{Single: 10}},
			{Indicator: "volume", Operator: models.OperatorGT, Value: models.ConditionValue{Single: 1}},
		},
	}

	result, err := svc.Execute(strat, models.TargetStock)
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)

	details := result.Items[0].MatchDetails
	require.Len(t, details, 2)
	assert.Equal(t, "close", details["condition_1"].Indicator)
	assert.Equal(t, models.OperatorGT, details["condition_1"].Operator)
	assert.Equal(t, "volume", details["condition_2"].Indicator)
}
