package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/edu-bd/StockVisualizer/models"
	"github.com/edu-bd/StockVisualizer/services/granger"
	"github.com/edu-bd/StockVisualizer/services/marketdata"
)

// GrangerController handles causality test requests
type GrangerController struct {
	db      *gorm.DB
	granger *granger.Service
}

// NewGrangerController creates a new granger controller
func NewGrangerController(db *gorm.DB) *GrangerController {
	return &GrangerController{
		db:      db,
		granger: granger.NewService(db),
	}
}

// Test runs Granger causality tests between a stock and every index
// POST /api/granger/test
func (gc *GrangerController) Test(c *gin.Context) {
	var req models.CausalityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.Normalize(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := gc.granger.ExecuteTest(&req)
	if err != nil {
		if errors.Is(err, marketdata.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
