package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/juicepos/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted by New.
type Handlers struct {
	Catalog   *handlers.CatalogHandler
	Sales     *handlers.SalesHandler
	Messaging *handlers.MessagingHandler
	Reports   *handlers.ReportHandler
	// Metrics serves the prometheus exposition; optional.
	Metrics http.Handler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	r.GET("/products", h.Catalog.ListProducts)
	r.GET("/products/:id", h.Catalog.GetProduct)
	r.PUT("/products/:id", h.Catalog.UpdateProduct)
	r.POST("/products/:id/reprice", h.Catalog.Reprice)
	r.GET("/products/:id/cost", h.Catalog.Cost)

	r.GET("/inventory", h.Catalog.ListInventory)
	r.GET("/inventory/low-stock", h.Catalog.LowStock)
	r.PUT("/inventory/:id", h.Catalog.UpdateItem)
	r.DELETE("/inventory/:id", h.Catalog.DeleteItem)

	r.GET("/recipes", h.Catalog.ListRecipes)
	r.GET("/recipes/:productId", h.Catalog.GetRecipe)
	r.PUT("/recipes/:productId", h.Catalog.SaveRecipe)
	r.DELETE("/recipes/:productId", h.Catalog.DeleteRecipe)

	r.POST("/sales", h.Sales.RecordSale)
	r.GET("/sales", h.Sales.ListSales)

	r.GET("/notifications", h.Messaging.ListNotifications)
	r.POST("/send-message", h.Messaging.SendMessage)

	r.GET("/predictions", h.Reports.ListPredictions)
	r.POST("/predictions", h.Reports.AddPrediction)
	r.GET("/reports/daily", h.Reports.Daily)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
