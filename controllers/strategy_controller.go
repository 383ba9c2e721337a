package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/edu-bd/StockVisualizer/models"
	"github.com/edu-bd/StockVisualizer/services/strategy"
)

// StrategyController handles screening strategy execution
type StrategyController struct {
	db        *gorm.DB
	screening *strategy.ScreeningService
}

// NewStrategyController creates a new strategy controller
func NewStrategyController(db *gorm.DB) *StrategyController {
	return &StrategyController{
		db:        db,
		screening: strategy.NewScreeningService(db),
	}
}

// Execute runs a strategy against the universe named by ?target_type=
// POST /api/strategies/execute
func (sc *StrategyController) Execute(c *gin.Context) {
	targetParam := c.DefaultQuery("target_type", string(models.TargetStock))
	target, err := models.ParseTargetType(targetParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sc.execute(c, target)
}

// ExecuteStock runs a strategy against the stock universe
// POST /api/strategies/execute/stock
func (sc *StrategyController) ExecuteStock(c *gin.Context) {
	sc.execute(c, models.TargetStock)
}

// ExecuteIndex runs a strategy against the index universe
// POST /api/strategies/execute/index
func (sc *StrategyController) ExecuteIndex(c *gin.Context) {
	sc.execute(c, models.TargetIndex)
}

func (sc *StrategyController) execute(c *gin.Context, target models.TargetType) {
	var strat models.Strategy
	if err := c.ShouldBindJSON(&strat); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if errs := strat.Validate(target); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	result, err := sc.screening.Execute(&strat, target)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
