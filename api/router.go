package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sales_dashboard/internal/insights"
	"sales_dashboard/internal/sales"
)

// InitRoutes registers the sales, dashboard and insight endpoints on the given
// Gin engine. Browsers from corsOrigins may call the API; an empty list
// allows any origin.
func InitRoutes(e *gin.Engine, repo *sales.Repository, requester *insights.Requester, logger *zap.Logger, corsOrigins []string) {
	corsConfig := cors.DefaultConfig()
	if len(corsOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = corsOrigins
	}
	corsConfig.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	e.Use(cors.New(corsConfig))

	salesHandler := NewSalesHandler(repo, requester, logger)

	e.GET("/sales", salesHandler.handleListSales)
	e.POST("/sales", salesHandler.handleCreateSale)
	e.PUT("/sales/:id", salesHandler.handleUpdateSale)
	e.DELETE("/sales/:id", salesHandler.handleDeleteSale)
	e.POST("/sales/import", salesHandler.handleImportSales)
	e.GET("/sales/export", salesHandler.handleExportSales)
	e.POST("/sales/sample", salesHandler.handleGenerateSample)

	e.GET("/dashboard", salesHandler.handleDashboard)
	e.GET("/insights/status", salesHandler.handleInsightsStatus)
	e.POST("/insights", salesHandler.handleInsights)
	e.GET("/views", handleViews)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}
