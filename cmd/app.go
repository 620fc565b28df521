package cmd

import (
	"context"
	"net/http"

	"github.com/dschaly/developer-store-sales-api-sub000/config"
	"github.com/dschaly/developer-store-sales-api-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the assembled application: configuration, router, HTTP server and
// the database handle (nil when running on in-memory persistence).
type App struct {
	config *config.Config
	engine *gin.Engine
	server *http.Server
	db     *gorm.DB
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully within the configured timeout.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
		return err
	}

	a.closeDB()
	logger.Info("Server stopped")
	return logger.Sync()
}

// Engine returns the gin engine, used by HTTP-level tests.
func (a *App) Engine() *gin.Engine {
	return a.engine
}

func (a *App) closeDB() {
	if a.db == nil {
		return
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("Failed to close database", zap.Error(err))
	}
}
