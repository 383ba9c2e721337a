package granger

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/edu-bd/StockVisualizer/models"
	"github.com/edu-bd/StockVisualizer/services/marketdata"
)

// analysisWindow is how far back the causality pipeline reads daily
// bars for both series.
const analysisWindow = 3 // years

// Service runs Granger causality batches of one stock against every
// known market index.
type Service struct {
	db        *gorm.DB
	stocks    *marketdata.StockService
	indices   *marketdata.IndexService
	basicInfo *marketdata.BasicInfoService
}

// NewService creates a new causality service instance.
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:        db,
		stocks:    marketdata.NewStockService(db),
		indices:   marketdata.NewIndexService(db),
		basicInfo: marketdata.NewBasicInfoService(db),
	}
}

// ExecuteTest runs the requested directions for every index against
// the stock. The request must already be normalized.
//
// A missing stock aborts the whole request with ErrNotFound. Failures
// scoped to a single index (a broken query, no overlapping dates) are
// logged and that index is skipped; failures scoped to one pair's
// numbers (non-positive price, too short a series) come back inside
// that pair's result with Error set.
func (s *Service) ExecuteTest(req *models.CausalityRequest) (*models.CausalityResponse, error) {
	start := time.Now()

	if _, err := s.stocks.GetStockInfo(req.StockSymbol); err != nil {
		if errors.Is(err, marketdata.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("stock lookup failed: %w", err)
	}

	stockName := ""
	if info, err := s.basicInfo.Get(req.StockSymbol); err == nil {
		stockName = info.Name
	}

	end := time.Now()
	windowStart := end.AddDate(-analysisWindow, 0, 0)

	stockBars, err := s.fetchStockBars(req.StockSymbol, windowStart, end)
	if err != nil {
		return nil, err
	}

	refs, err := s.indices.ListAllIndices()
	if err != nil {
		return nil, fmt.Errorf("index listing failed: %w", err)
	}

	results := make([]models.CausalityResultItem, 0, len(refs))
	for _, ref := range refs {
		indexBars, err := s.fetchIndexBars(ref.Symbol, windowStart, end)
		if err != nil {
			log.Printf("Causality: skipping index %s: %v", ref.Symbol, err)
			continue
		}

		stockClose, indexClose, dates := Align(stockBars, indexBars, req.ExcludeSuspensionDays())
		if len(dates) == 0 {
			log.Printf("Causality: skipping index %s: no overlapping trading days with %s",
				ref.Symbol, req.StockSymbol)
			continue
		}

		item := models.CausalityResultItem{IndexSymbol: ref.Symbol, IndexName: ref.Name}
		stockToIndex, indexToStock := runPair(stockClose, indexClose, req)
		if req.WantsDirection(models.DirectionStockToIndex) {
			item.StockToIndexResult = stockToIndex
		}
		if req.WantsDirection(models.DirectionIndexToStock) {
			item.IndexToStockResult = indexToStock
		}
		results = append(results, item)
	}

	return &models.CausalityResponse{
		StockSymbol:       req.StockSymbol,
		StockName:         stockName,
		MaxLag:            req.MaxLag,
		SignificanceLevel: req.SignificanceLevel,
		Results:           results,
		ExecutionTime:     time.Since(start).Seconds(),
	}, nil
}

// runPair computes log returns once for the aligned pair and tests
// both directions. A return-transform error poisons both directions
// with the same batch error.
func runPair(stockClose, indexClose []float64, req *models.CausalityRequest) (stockToIndex, indexToStock *models.CausalityTestResult) {
	stockReturns, err := LogReturns(stockClose)
	if err != nil {
		r := failedResult(fmt.Errorf("stock series: %w", err))
		return &r, copyResult(r)
	}
	indexReturns, err := LogReturns(indexClose)
	if err != nil {
		r := failedResult(fmt.Errorf("index series: %w", err))
		return &r, copyResult(r)
	}

	if req.WantsDirection(models.DirectionStockToIndex) {
		r := RunTest(stockReturns, indexReturns, req.MaxLag, req.SignificanceLevel)
		stockToIndex = &r
	}
	if req.WantsDirection(models.DirectionIndexToStock) {
		r := RunTest(indexReturns, stockReturns, req.MaxLag, req.SignificanceLevel)
		indexToStock = &r
	}
	return stockToIndex, indexToStock
}

func copyResult(r models.CausalityTestResult) *models.CausalityTestResult {
	dup := r
	return &dup
}

func (s *Service) fetchStockBars(symbol string, start, end time.Time) ([]Bar, error) {
	rows, err := s.stocks.GetStockKline(symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("stock bars query failed: %w", err)
	}
	bars := make([]Bar, len(rows))
	for i, row := range rows {
		bars[i] = Bar{Date: row.Date, Close: row.Close.InexactFloat64(), Volume: row.Volume}
	}
	return bars, nil
}

func (s *Service) fetchIndexBars(symbol string, start, end time.Time) ([]Bar, error) {
	rows, err := s.indices.GetIndexKline(symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("index bars query failed: %w", err)
	}
	bars := make([]Bar, len(rows))
	for i, row := range rows {
		bars[i] = Bar{Date: row.Date, Close: row.Close.InexactFloat64(), Volume: row.Volume}
	}
	return bars, nil
}
