package mysql

import (
	"context"
	"errors"

	"github.com/dschaly/developer-store-sales-api-sub000/domain/product"
	"github.com/dschaly/developer-store-sales-api-sub000/domain/sale"
	"github.com/dschaly/developer-store-sales-api-sub000/infrastructure/persistence"
	"github.com/dschaly/developer-store-sales-api-sub000/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// ProductRepository MySQL/GORM implementation of the product repository.
// Read-only from this service's point of view; product management is owned
// elsewhere.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository Create product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// FindByID Find product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	var productPO po.ProductPO

	result := r.getDB(ctx).First(&productPO, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, sale.NewProductNotFoundError(id)
		}
		return nil, result.Error
	}

	return productPO.ToDomain(), nil
}

// Compile-time interface implementation check
var _ product.Repository = (*ProductRepository)(nil)
