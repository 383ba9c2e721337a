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

// BasicInfoController handles the stock reference data endpoints
type BasicInfoController struct {
	cfg       *config.Config
	basicInfo *marketdata.BasicInfoService
	fetcher   *marketdata.SpotFetcher
}

// NewBasicInfoController creates a new basic info controller
func NewBasicInfoController(db *gorm.DB, cfg *config.Config) *BasicInfoController {
	return &BasicInfoController{
		cfg:       cfg,
		basicInfo: marketdata.NewBasicInfoService(db),
		fetcher:   marketdata.NewSpotFetcher(cfg.SpotProviderURL),
	}
}

// List returns a paginated reference data listing
// GET /api/stock-basic-info
func (bc *BasicInfoController) List(c *gin.Context) {
	page, pageSize := pagination(c, bc.cfg)
	search := c.Query("search")

	result, err := bc.basicInfo.List(page, pageSize, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get returns reference data for one symbol
// GET /api/stock-basic-info/:symbol
func (bc *BasicInfoController) Get(c *gin.Context) {
	info, err := bc.basicInfo.Get(c.Param("symbol"))
	if err != nil {
		if errors.Is(err, marketdata.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, info)
}

// Update upserts reference data for one symbol
// PUT /api/stock-basic-info/:symbol
func (bc *BasicInfoController) Update(c *gin.Context) {
	var info models.StockBasicInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	info.Symbol = c.Param("symbol")

	if err := bc.basicInfo.Upsert(&info); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, info)
}

// Refresh pulls the provider spot list and upserts every record
// POST /api/stock-basic-info/refresh
func (bc *BasicInfoController) Refresh(c *gin.Context) {
	updated, err := bc.basicInfo.RefreshFromProvider(c.Request.Context(), bc.fetcher)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
