package marketdata

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/edu-bd/StockVisualizer/models"
)

func seedIndexBars(t *testing.T, db *gorm.DB, symbol, name string, closes ...float64) {
	t.Helper()
	base := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	for i, close := range closes {
		require.NoError(t, db.Create(&models.IndexDaily{
			Symbol: symbol,
			Name:   name,
			Date:   base.AddDate(0, 0, i),
			Open:   decimal.NewFromFloat(close),
			Close:  decimal.NewFromFloat(close),
			High:   decimal.NewFromFloat(close),
			Low:    decimal.NewFromFloat(close),
			Volume: 5000,
		}).Error)
	}
}

func TestListIndicesSearchMatchesName(t *testing.T) {
	db := openTestDB(t)
	seedIndexBars(t, db, "000001", "SSE Composite", 3000)
	seedIndexBars(t, db, "399001", "SZSE Component", 10000)

	svc := NewIndexService(db)
	result, err := svc.ListIndices(1, 10, "Composite")
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)

	result, err = svc.ListIndices(1, 10, "399")
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
}

func TestListAllIndices(t *testing.T) {
	db := openTestDB(t)
	seedIndexBars(t, db, "000001", "SSE Composite", 3000, 3010)
	seedIndexBars(t, db, "399001", "SZSE Component", 10000)

	svc := NewIndexService(db)
	refs, err := svc.ListAllIndices()
	require.NoError(t, err)
	require.Len(t, refs, 2)

	names := map[string]string{}
	for _, ref := range refs {
		names[ref.Symbol] = ref.Name
	}
	assert.Equal(t, "SSE Composite", names["000001"])
	assert.Equal(t, "SZSE Component", names["399001"])
}

func TestGetIndexKlineAscending(t *testing.T) {
	db := openTestDB(t)
	seedIndexBars(t, db, "000001", "SSE Composite", 3000, 3010, 3020)

	svc := NewIndexService(db)
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	bars, err := svc.GetIndexKline("000001", start, end)
	require.NoError(t, err)
	require.Len(t, bars, 3)
	assert.Equal(t, 3000.0, bars[0].Close.InexactFloat64())
	assert.Equal(t, 3020.0, bars[2].Close.InexactFloat64())
}
