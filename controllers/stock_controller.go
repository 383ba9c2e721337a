package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/edu-bd/StockVisualizer/config"
	"github.com/edu-bd/StockVisualizer/models"
	"github.com/edu-bd/StockVisualizer/services/marketdata"
)

const queryDateFormat = "2006-01-02"

// StockController handles stock listing and kline requests
type StockController struct {
	cfg    *config.Config
	stocks *marketdata.StockService
}

// NewStockController creates a new stock controller
func NewStockController(db *gorm.DB, cfg *config.Config) *StockController {
	return &StockController{
		cfg:    cfg,
		stocks: marketdata.NewStockService(db),
	}
}

// GetStocks returns a paginated stock listing
// GET /api/stocks
func (sc *StockController) GetStocks(c *gin.Context) {
	page, pageSize := pagination(c, sc.cfg)
	search := c.Query("search")

	result, err := sc.stocks.ListStocks(page, pageSize, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetStockInfo returns the most recent daily bar for a stock
// GET /api/stocks/:symbol
func (sc *StockController) GetStockInfo(c *gin.Context) {
	bar, err := sc.stocks.GetStockInfo(c.Param("symbol"))
	if err != nil {
		if errors.Is(err, marketdata.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, bar)
}

// GetStockKline returns daily bars for a stock in a date range
// GET /api/stocks/:symbol/kline
func (sc *StockController) GetStockKline(c *gin.Context) {
	start, end, err := dateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bars, err := sc.stocks.GetStockKline(c.Param("symbol"), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	points := make([]models.KlinePoint, 0, len(bars))
	for _, bar := range bars {
		points = append(points, bar.KlinePoint())
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol": c.Param("symbol"),
		"data":   points,
	})
}

// pagination reads page/page_size query params, bounded by config.
func pagination(c *gin.Context, cfg *config.Config) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(cfg.DefaultPageSize)))
	if err != nil || pageSize < 1 {
		pageSize = cfg.DefaultPageSize
	}
	if pageSize > cfg.MaxPageSize {
		pageSize = cfg.MaxPageSize
	}
	return page, pageSize
}

// dateRange reads optional start_date/end_date query params.
func dateRange(c *gin.Context) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if s := c.Query("start_date"); s != "" {
		start, err = time.Parse(queryDateFormat, s)
		if err != nil {
			return start, end, errors.New("start_date must be formatted as YYYY-MM-DD")
		}
	}
	if s := c.Query("end_date"); s != "" {
		end, err = time.Parse(queryDateFormat, s)
		if err != nil {
			return start, end, errors.New("end_date must be formatted as YYYY-MM-DD")
		}
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return start, end, errors.New("start_date must not be after end_date")
	}
	return start, end, nil
}
