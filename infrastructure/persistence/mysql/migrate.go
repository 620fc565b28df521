package mysql

import (
	"github.com/dschaly/developer-store-sales-api-sub000/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for all persistence objects.
// Intended for development and tests; production schema changes go through
// reviewed migrations.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&po.SalePO{},
		&po.SaleLinePO{},
		&po.ProductPO{},
		&po.OutboxEventPO{},
	)
}
