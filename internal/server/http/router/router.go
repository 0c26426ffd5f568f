package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/aquadesk/aquadesk/internal/server/http/handlers"
	"github.com/aquadesk/aquadesk/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.DispatchFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	customerHandler := handlers.NewCustomerHandler(facade)
	ruleHandler := handlers.NewRuleHandler(facade)
	requestHandler := handlers.NewRequestHandler(facade)
	opsHandler := handlers.NewOpsHandler(facade)

	api := engine.Group("/api")
	api.POST("/customers", customerHandler.Create)
	api.GET("/customers", customerHandler.List)
	api.GET("/customers/:id", customerHandler.Get)

	api.POST("/rules", ruleHandler.Create)
	api.GET("/rules", ruleHandler.List)
	api.PUT("/rules/:id", ruleHandler.Update)
	api.DELETE("/rules/:id", ruleHandler.Delete)
	api.POST("/rules/:id/advance", ruleHandler.Advance)

	api.POST("/requests", requestHandler.Create)
	api.GET("/requests", requestHandler.List)
	api.POST("/requests/:id/status", requestHandler.Status)
	api.POST("/requests/:id/cancel", requestHandler.Cancel)

	api.POST("/sweep", opsHandler.Sweep)
	api.GET("/health", opsHandler.Health)

	return engine
}
