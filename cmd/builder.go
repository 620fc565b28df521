package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/dschaly/developer-store-sales-api-sub000/api"
	"github.com/dschaly/developer-store-sales-api-sub000/api/health"
	apisale "github.com/dschaly/developer-store-sales-api-sub000/api/sale"
	saleapp "github.com/dschaly/developer-store-sales-api-sub000/application/sale"
	"github.com/dschaly/developer-store-sales-api-sub000/config"
	"github.com/dschaly/developer-store-sales-api-sub000/domain/product"
	saledomain "github.com/dschaly/developer-store-sales-api-sub000/domain/sale"
	"github.com/dschaly/developer-store-sales-api-sub000/domain/shared"
	"github.com/dschaly/developer-store-sales-api-sub000/infrastructure/persistence/mocks"
	"github.com/dschaly/developer-store-sales-api-sub000/infrastructure/persistence/mysql"
	"github.com/dschaly/developer-store-sales-api-sub000/infrastructure/persistence/retry"
	"github.com/dschaly/developer-store-sales-api-sub000/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AppBuilder assembles the application from configuration.
type AppBuilder struct {
	cfg *config.Config
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

// Build wires configuration, logging, persistence, the discount policy,
// application services and HTTP routing into a runnable App.
func (b *AppBuilder) Build() *App {
	if err := logger.Init(&b.cfg.Log, b.cfg.App.Env); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env))

	policy, err := discountPolicyFromConfig(&b.cfg.Discount)
	if err != nil {
		logger.Fatal("Invalid discount configuration", zap.Error(err))
	}

	var db *gorm.DB
	var saleRepo saledomain.Repository
	var productRepo product.Repository
	var uowFactory shared.UnitOfWorkFactory

	if b.cfg.Database.Type == "mysql" {
		db, saleRepo, productRepo, uowFactory = b.initMySQL()
	} else {
		logger.Info("Using in-memory persistence layer")
		saleRepo = mocks.NewMockSaleRepository()
		productRepo = mocks.NewSeededProductRepository()
		uowFactory = mocks.NewMockUnitOfWorkFactory()
	}

	saleService := saleapp.NewApplicationService(saleRepo, productRepo, policy, uowFactory)

	saleController := apisale.NewController(saleService)
	healthController := health.NewController(b.cfg, healthDB(db))

	engine := api.NewRouter(b.cfg, saleController, healthController)

	server := &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}

	return &App{
		config: b.cfg,
		engine: engine,
		server: server,
		db:     db,
	}
}

func (b *AppBuilder) initMySQL() (*gorm.DB, saledomain.Repository, product.Repository, shared.UnitOfWorkFactory) {
	logger.Info("Using MySQL/GORM persistence layer")

	db, err := NewMySQLConfig(b.cfg).Connect()
	if err != nil {
		logger.Fatal("Failed to connect to MySQL", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying sql.DB", zap.Error(err))
	}
	if err := sqlDB.Ping(); err != nil {
		logger.Fatal("Failed to ping MySQL", zap.Error(err))
	}

	// Auto migration in development environment
	if b.cfg.IsDevelopment() {
		if err := mysql.AutoMigrate(db); err != nil {
			logger.Fatal("Failed to auto migrate", zap.Error(err))
		}
	}

	saleRepo := mysql.NewSaleRepository(db)
	productRepo := mysql.NewProductRepository(db)
	uowFactory := mysql.NewUnitOfWorkFactory(db, retry.FromAppConfig(b.cfg))

	return db, saleRepo, productRepo, uowFactory
}

// discountPolicyFromConfig builds the discount policy from the configured
// tier table, falling back to the built-in default when none is configured.
func discountPolicyFromConfig(cfg *config.DiscountConfig) (*saledomain.DiscountPolicy, error) {
	if len(cfg.Tiers) == 0 {
		return saledomain.DefaultDiscountPolicy(), nil
	}

	tiers := make([]saledomain.DiscountTier, len(cfg.Tiers))
	for i, tier := range cfg.Tiers {
		tiers[i] = saledomain.DiscountTier{
			MinQuantity: tier.MinQuantity,
			MaxQuantity: tier.MaxQuantity,
			RateBps:     tier.RateBps,
		}
	}
	return saledomain.NewDiscountPolicy(tiers)
}

func healthDB(db *gorm.DB) interface{} {
	if db == nil {
		return nil
	}
	sqlDB, _ := db.DB()
	return sqlDB
}
