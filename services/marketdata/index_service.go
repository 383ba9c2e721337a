package marketdata

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/edu-bd/StockVisualizer/models"
)

// IndexService serves index listings, snapshots and kline data.
type IndexService struct {
	db *gorm.DB
}

// NewIndexService creates a new index service instance.
func NewIndexService(db *gorm.DB) *IndexService {
	return &IndexService{db: db}
}

// IndexRef identifies one index (distinct symbol/name pair).
type IndexRef struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// ListIndices returns a paginated listing of distinct indices with
// their most recent close. Search matches symbol or name.
func (s *IndexService) ListIndices(page, pageSize int, search string) (*models.PagedResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	base := "SELECT DISTINCT symbol, name, " +
		"first_value(close) OVER (PARTITION BY symbol ORDER BY date DESC) AS latest_price " +
		"FROM index_daily_data"
	countBase := "SELECT COUNT(DISTINCT symbol) FROM index_daily_data"

	params := map[string]interface{}{}
	if search != "" {
		base += " WHERE symbol LIKE @search OR name LIKE @search"
		countBase += " WHERE symbol LIKE @search OR name LIKE @search"
		params["search"] = "%" + search + "%"
	}

	offset := (page - 1) * pageSize
	base += fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, offset)

	var rows []listRow
	var total int64
	if len(params) > 0 {
		if err := s.db.Raw(base, params).Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("index list query failed: %w", err)
		}
		if err := s.db.Raw(countBase, params).Scan(&total).Error; err != nil {
			return nil, fmt.Errorf("index count query failed: %w", err)
		}
	} else {
		if err := s.db.Raw(base).Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("index list query failed: %w", err)
		}
		if err := s.db.Raw(countBase).Scan(&total).Error; err != nil {
			return nil, fmt.Errorf("index count query failed: %w", err)
		}
	}

	return &models.PagedResult{Items: rows, Total: total, Page: page, PageSize: pageSize}, nil
}

// ListAllIndices returns every distinct (symbol, name) pair, used to
// enumerate the causality test universe.
func (s *IndexService) ListAllIndices() ([]IndexRef, error) {
	var refs []IndexRef
	err := s.db.Raw("SELECT DISTINCT symbol, name FROM index_daily_data").Scan(&refs).Error
	if err != nil {
		return nil, fmt.Errorf("index enumeration failed: %w", err)
	}
	return refs, nil
}

// GetIndexInfo returns the most recent daily bar for an index.
func (s *IndexService) GetIndexInfo(symbol string) (*models.IndexDaily, error) {
	var bar models.IndexDaily
	err := s.db.Where("symbol = ?", symbol).Order("date DESC").First(&bar).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("index %s: %w", symbol, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("index info query failed: %w", err)
	}
	return &bar, nil
}

// GetIndexKline returns daily bars for an index in [start, end],
// ascending. Zero times default to the last year.
func (s *IndexService) GetIndexKline(symbol string, start, end time.Time) ([]models.IndexDaily, error) {
	start, end = normalizeRange(start, end)

	var bars []models.IndexDaily
	err := s.db.
		Where("symbol = ? AND date BETWEEN ? AND ?", symbol, start, end).
		Order("date").
		Find(&bars).Error
	if err != nil {
		return nil, fmt.Errorf("index kline query failed: %w", err)
	}
	return bars, nil
}
