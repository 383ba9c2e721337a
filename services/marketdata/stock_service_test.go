package marketdata

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/edu-bd/StockVisualizer/models"
)

func seedStockBars(t *testing.T, db *gorm.DB, symbol string, closes ...float64) {
	t.Helper()
	base := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	for i, close := range closes {
		require.NoError(t, db.Create(&models.StockDaily{
			Symbol: symbol,
			Date:   base.AddDate(0, 0, i),
			Open:   decimal.NewFromFloat(close),
			Close:  decimal.NewFromFloat(close),
			High:   decimal.NewFromFloat(close),
			Low:    decimal.NewFromFloat(close),
			Volume: 1000,
		}).Error)
	}
}

func TestListStocksReturnsLatestClose(t *testing.T) {
	db := openTestDB(t)
	seedStockBars(t, db, "600000", 10, 12)
	seedStockBars(t, db, "000001", 8)

	svc := NewStockService(db)
	result, err := svc.ListStocks(1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)

	rows, ok := result.Items.([]listRow)
	require.True(t, ok)
	prices := map[string]float64{}
	for _, row := range rows {
		prices[row.Symbol] = row.LatestPrice
	}
	assert.Equal(t, 12.0, prices["600000"])
	assert.Equal(t, 8.0, prices["000001"])
}

func TestListStocksSearch(t *testing.T) {
	db := openTestDB(t)
	seedStockBars(t, db, "600000", 10)
	seedStockBars(t, db, "000001", 8)

	svc := NewStockService(db)
	result, err := svc.ListStocks(1, 10, "6000")
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
}

func TestGetStockInfoReturnsLatestBar(t *testing.T) {
	db := openTestDB(t)
	seedStockBars(t, db, "600000", 10, 12, 11)

	svc := NewStockService(db)
	bar, err := svc.GetStockInfo("600000")
	require.NoError(t, err)
	assert.Equal(t, "600000", bar.Symbol)
	assert.Equal(t, 11.0, bar.Close.InexactFloat64())
}

func TestGetStockInfoNotFound(t *testing.T) {
	db := openTestDB(t)

	svc := NewStockService(db)
	_, err := svc.GetStockInfo("999999")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGetStockKlineRange(t *testing.T) {
	db := openTestDB(t)
	seedStockBars(t, db, "600000", 10, 11, 12, 13, 14)

	svc := NewStockService(db)
	start := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)

	bars, err := svc.GetStockKline("600000", start, end)
	require.NoError(t, err)
	require.Len(t, bars, 3)
	assert.Equal(t, 11.0, bars[0].Close.InexactFloat64())
	assert.Equal(t, 13.0, bars[2].Close.InexactFloat64())
	assert.True(t, bars[0].Date.Before(bars[1].Date))
}
