package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/edu-bd/StockVisualizer/config"
	"github.com/edu-bd/StockVisualizer/models"
	"github.com/edu-bd/StockVisualizer/services/marketdata"
)

// IndexController handles index listing and kline requests
type IndexController struct {
	cfg     *config.Config
	indices *marketdata.IndexService
}

// NewIndexController creates a new index controller
func NewIndexController(db *gorm.DB, cfg *config.Config) *IndexController {
	return &IndexController{
		cfg:     cfg,
		indices: marketdata.NewIndexService(db),
	}
}

// GetIndices returns a paginated index listing
// GET /api/indices
func (ic *IndexController) GetIndices(c *gin.Context) {
	page, pageSize := pagination(c, ic.cfg)
	search := c.Query("search")

	result, err := ic.indices.ListIndices(page, pageSize, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetIndexInfo returns the most recent daily bar for an index
// GET /api/indices/:symbol
func (ic *IndexController) GetIndexInfo(c *gin.Context) {
	bar, err := ic.indices.GetIndexInfo(c.Param("symbol"))
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

// GetIndexKline returns daily bars for an index in a date range
// GET /api/indices/:symbol/kline
func (ic *IndexController) GetIndexKline(c *gin.Context) {
	start, end, err := dateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bars, err := ic.indices.GetIndexKline(c.Param("symbol"), start, end)
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
