package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/edu-bd/StockVisualizer/config"
	"github.com/edu-bd/StockVisualizer/controllers"
	"github.com/edu-bd/StockVisualizer/middleware"
)

// SetupRoutes sets up all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Initialize controllers
	stockController := controllers.NewStockController(db, cfg)
	indexController := controllers.NewIndexController(db, cfg)
	strategyController := controllers.NewStrategyController(db)
	grangerController := controllers.NewGrangerController(db)
	basicInfoController := controllers.NewBasicInfoController(db, cfg)
	authController := controllers.NewAuthController(cfg)

	api := router.Group("/api")
	{
		// Stock routes
		stocks := api.Group("/stocks")
		{
			stocks.GET("", stockController.GetStocks)
			stocks.GET("/:symbol", stockController.GetStockInfo)
			stocks.GET("/:symbol/kline", stockController.GetStockKline)
		}

		// Index routes
		indices := api.Group("/indices")
		{
			indices.GET("", indexController.GetIndices)
			indices.GET("/:symbol", indexController.GetIndexInfo)
			indices.GET("/:symbol/kline", indexController.GetIndexKline)
		}

		// Strategy screening routes
		strategies := api.Group("/strategies")
		{
			strategies.POST("/execute", strategyController.Execute)
			strategies.POST("/execute/stock", strategyController.ExecuteStock)
			strategies.POST("/execute/index", strategyController.ExecuteIndex)
		}

		// Causality test routes
		granger := api.Group("/granger")
		{
			granger.POST("/test", grangerController.Test)
		}

		// Stock reference data routes; writes require an admin token
		basicInfo := api.Group("/stock-basic-info")
		{
			basicInfo.GET("", basicInfoController.List)
			basicInfo.GET("/:symbol", basicInfoController.Get)

			guarded := basicInfo.Group("", middleware.RequireAdmin(cfg))
			{
				guarded.PUT("/:symbol", basicInfoController.Update)
				guarded.POST("/refresh", basicInfoController.Refresh)
			}
		}

		// Admin authentication
		admin := api.Group("/admin")
		{
			admin.POST("/login", authController.Login)
		}
	}
}
