package marketdata

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/edu-bd/StockVisualizer/models"
)

// BasicInfoService manages the stock_basic_info reference table.
type BasicInfoService struct {
	db *gorm.DB
}

// NewBasicInfoService creates a new basic info service instance.
func NewBasicInfoService(db *gorm.DB) *BasicInfoService {
	return &BasicInfoService{db: db}
}

var exchangePrefixes = []string{"sh", "sz", "bj"}

// Get looks up basic info by symbol. Callers pass symbols both with
// and without the exchange prefix ("sh600000" vs "600000"), so a miss
// retries the alternate forms before reporting not found.
func (s *BasicInfoService) Get(symbol string) (*models.StockBasicInfo, error) {
	info, err := s.lookup(symbol)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return info, err
	}

	if hasExchangePrefix(symbol) {
		return s.lookup(symbol[2:])
	}
	for _, prefix := range exchangePrefixes {
		info, err = s.lookup(prefix + symbol)
		if err == nil {
			return info, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("basic info for %s: %w", symbol, ErrNotFound)
}

func (s *BasicInfoService) lookup(symbol string) (*models.StockBasicInfo, error) {
	var info models.StockBasicInfo
	err := s.db.Where("symbol = ?", symbol).First(&info).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("basic info for %s: %w", symbol, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("basic info query failed: %w", err)
	}
	return &info, nil
}

func hasExchangePrefix(symbol string) bool {
	for _, prefix := range exchangePrefixes {
		if strings.HasPrefix(symbol, prefix) {
			return true
		}
	}
	return false
}

// List returns a paginated listing, optionally filtered by symbol or
// name substring.
func (s *BasicInfoService) List(page, pageSize int, search string) (*models.PagedResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	query := s.db.Model(&models.StockBasicInfo{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("symbol LIKE ? OR name LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("basic info count failed: %w", err)
	}

	var items []models.StockBasicInfo
	offset := (page - 1) * pageSize
	if err := query.Limit(pageSize).Offset(offset).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("basic info list failed: %w", err)
	}

	return &models.PagedResult{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// Upsert inserts or updates one record inside a transaction; a failed
// write rolls back.
func (s *BasicInfoService) Upsert(info *models.StockBasicInfo) error {
	if info.Symbol == "" {
		return fmt.Errorf("basic info upsert: symbol must not be empty")
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "symbol"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "morning_auction_volume", "closing_auction_volume",
			}),
		}).Create(info).Error
	})
}

// BatchUpsert applies Upsert per record and returns how many
// succeeded. Individual failures are logged and skipped.
func (s *BasicInfoService) BatchUpsert(infos []models.StockBasicInfo) int {
	updated := 0
	for i := range infos {
		if err := s.Upsert(&infos[i]); err != nil {
			log.Printf("Basic info upsert failed for %s: %v", infos[i].Symbol, err)
			continue
		}
		updated++
	}
	return updated
}

// RefreshFromProvider pulls the spot list and upserts it, returning
// the number of records updated.
func (s *BasicInfoService) RefreshFromProvider(ctx context.Context, fetcher *SpotFetcher) (int, error) {
	infos, err := fetcher.FetchSpotList(ctx)
	if err != nil {
		return 0, fmt.Errorf("spot list fetch failed: %w", err)
	}
	updated := s.BatchUpsert(infos)
	log.Printf("Refreshed %d of %d stock basic info records", updated, len(infos))
	return updated, nil
}
