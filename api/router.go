// Package api wires HTTP routing and middleware.
package api

import (
	"github.com/dschaly/developer-store-sales-api-sub000/api/health"
	"github.com/dschaly/developer-store-sales-api-sub000/api/middleware"
	salectrl "github.com/dschaly/developer-store-sales-api-sub000/api/sale"
	"github.com/dschaly/developer-store-sales-api-sub000/config"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with the standard middleware chain and
// all controller routes registered.
func NewRouter(
	cfg *config.Config,
	saleController *salectrl.Controller,
	healthController *health.Controller,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit))

	root := router.Group("/")
	healthController.RegisterRoutes(root)

	v1 := router.Group("/api/v1")
	saleController.RegisterRoutes(v1)

	return router
}
