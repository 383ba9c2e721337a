package marketdata

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/edu-bd/StockVisualizer/models"
)

// ErrNotFound reports a missing instrument or reference record.
var ErrNotFound = errors.New("record not found")

// DefaultKlineRange is how far back kline queries reach when the
// caller gives no start date.
const DefaultKlineRange = 365 * 24 * time.Hour

// StockService serves stock listings, snapshots and kline data.
type StockService struct {
	db *gorm.DB
}

// NewStockService creates a new stock service instance.
func NewStockService(db *gorm.DB) *StockService {
	return &StockService{db: db}
}

type listRow struct {
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name,omitempty"`
	LatestPrice float64 `json:"latest_price"`
}

// ListStocks returns a paginated listing of distinct symbols with
// their most recent close.
func (s *StockService) ListStocks(page, pageSize int, search string) (*models.PagedResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	base := "SELECT DISTINCT symbol, " +
		"first_value(close) OVER (PARTITION BY symbol ORDER BY date DESC) AS latest_price " +
		"FROM stock_daily_data"
	countBase := "SELECT COUNT(DISTINCT symbol) FROM stock_daily_data"

	params := map[string]interface{}{}
	if search != "" {
		base += " WHERE symbol LIKE @search"
		countBase += " WHERE symbol LIKE @search"
		params["search"] = "%" + search + "%"
	}

	offset := (page - 1) * pageSize
	base += fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, offset)

	var rows []listRow
	var total int64
	if len(params) > 0 {
		if err := s.db.Raw(base, params).Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("stock list query failed: %w", err)
		}
		if err := s.db.Raw(countBase, params).Scan(&total).Error; err != nil {
			return nil, fmt.Errorf("stock count query failed: %w", err)
		}
	} else {
		if err := s.db.Raw(base).Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("stock list query failed: %w", err)
		}
		if err := s.db.Raw(countBase).Scan(&total).Error; err != nil {
			return nil, fmt.Errorf("stock count query failed: %w", err)
		}
	}

	return &models.PagedResult{Items: rows, Total: total, Page: page, PageSize: pageSize}, nil
}

// GetStockInfo returns the most recent daily bar for a symbol.
func (s *StockService) GetStockInfo(symbol string) (*models.StockDaily, error) {
	var bar models.StockDaily
	err := s.db.Where("symbol = ?", symbol).Order("date DESC").First(&bar).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("stock %s: %w", symbol, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("stock info query failed: %w", err)
	}
	return &bar, nil
}

// GetStockKline returns daily bars for a symbol in [start, end],
// ascending. Zero times default to the last year.
func (s *StockService) GetStockKline(symbol string, start, end time.Time) ([]models.StockDaily, error) {
	start, end = normalizeRange(start, end)

	var bars []models.StockDaily
	err := s.db.
		Where("symbol = ? AND date BETWEEN ? AND ?", symbol, start, end).
		Order("date").
		Find(&bars).Error
	if err != nil {
		return nil, fmt.Errorf("stock kline query failed: %w", err)
	}
	return bars, nil
}

func normalizeRange(start, end time.Time) (time.Time, time.Time) {
	if end.IsZero() {
		end = time.Now()
	}
	if start.IsZero() {
		start = end.Add(-DefaultKlineRange)
	}
	return start, end
}
