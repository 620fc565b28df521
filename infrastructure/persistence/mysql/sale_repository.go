package mysql

import (
	"context"
	"errors"

	"github.com/dschaly/developer-store-sales-api-sub000/domain/sale"
	"github.com/dschaly/developer-store-sales-api-sub000/infrastructure/persistence"
	"github.com/dschaly/developer-store-sales-api-sub000/infrastructure/persistence/mysql/po"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// sortColumns maps the domain's closed set of sortable fields to columns.
// Anything not in this map was already rejected by ParseSortField, so the
// ORDER BY clause can never carry caller-supplied text.
var sortColumns = map[sale.SortField]string{
	sale.SortBySaleNumber:  "sale_number",
	sale.SortByTotalAmount: "total_amount",
	sale.SortByCreatedAt:   "created_at",
}

// SaleRepository MySQL/GORM implementation of the sale repository
// Repository is only responsible for persistence of aggregate roots, not
// event publishing. GORM association features are not used so aggregate
// boundaries stay explicit.
type SaleRepository struct {
	db *gorm.DB
}

// NewSaleRepository Create sale repository
func NewSaleRepository(db *gorm.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *SaleRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// NextIdentity Generate new sale ID
func (r *SaleRepository) NextIdentity() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Save persists the sale and its lines (create or update).
// Lines use a delete-then-insert strategy; line cancellation and repricing
// rewrite the whole set anyway, so diffing buys nothing.
//
// Updates are version-conditional: the UPDATE matches the version the
// aggregate was loaded with, and zero affected rows means another writer
// got there first. The unit of work retries the whole operation on that.
func (r *SaleRepository) Save(ctx context.Context, s *sale.Sale) error {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return r.saveWithTx(tx, s)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithTx(tx, s)
	})
}

func (r *SaleRepository) saveWithTx(tx *gorm.DB, s *sale.Sale) error {
	loadedVersion := s.Version()
	s.IncrementVersionForSave()
	salePO, linePOs := po.FromSaleDomain(s)

	if loadedVersion == 0 {
		if err := tx.Create(salePO).Error; err != nil {
			return err
		}
	} else {
		result := tx.Model(&po.SalePO{}).
			Where("id = ? AND version = ?", s.ID(), loadedVersion).
			Updates(map[string]interface{}{
				"total_amount":   salePO.TotalAmount,
				"total_currency": salePO.TotalCurrency,
				"cancelled":      salePO.Cancelled,
				"version":        salePO.Version,
				"updated_at":     salePO.UpdatedAt,
				"updated_by":     salePO.UpdatedBy,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return sale.NewConcurrentModificationError(s.ID())
		}
	}

	if err := tx.Where("sale_id = ?", s.ID()).Delete(&po.SaleLinePO{}).Error; err != nil {
		return err
	}
	if len(linePOs) > 0 {
		if err := tx.Create(&linePOs).Error; err != nil {
			return err
		}
	}

	return nil
}

// FindByID Find sale by ID
func (r *SaleRepository) FindByID(ctx context.Context, id string) (*sale.Sale, error) {
	db := r.getDB(ctx)
	var salePO po.SalePO

	result := db.First(&salePO, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, sale.NewSaleNotFoundError(id)
		}
		return nil, result.Error
	}

	return r.loadLines(db, &salePO)
}

// FindByLineID Find the sale that owns the given line
func (r *SaleRepository) FindByLineID(ctx context.Context, lineID string) (*sale.Sale, error) {
	db := r.getDB(ctx)

	var linePO po.SaleLinePO
	result := db.First(&linePO, "id = ?", lineID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, sale.NewItemNotFoundError(lineID)
		}
		return nil, result.Error
	}

	return r.FindByID(ctx, linePO.SaleID)
}

// Search Find sales by typed criteria with pagination
func (r *SaleRepository) Search(ctx context.Context, criteria sale.SearchCriteria) ([]*sale.Sale, int64, error) {
	db := r.getDB(ctx)

	query := db.Model(&po.SalePO{})
	if criteria.CustomerID != "" {
		query = query.Where("customer_id = ?", criteria.CustomerID)
	}
	if criteria.BranchID != "" {
		query = query.Where("branch_id = ?", criteria.BranchID)
	}
	if criteria.Cancelled != nil {
		query = query.Where("cancelled = ?", *criteria.Cancelled)
	}
	if !criteria.CreatedAfter.IsZero() {
		query = query.Where("created_at >= ?", criteria.CreatedAfter)
	}
	if !criteria.CreatedUntil.IsZero() {
		query = query.Where("created_at < ?", criteria.CreatedUntil)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[criteria.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if criteria.SortOrder == sale.SortDesc {
		direction = "DESC"
	}

	var salePOs []po.SalePO
	if err := query.
		Order(column + " " + direction).
		Offset((criteria.Page - 1) * criteria.PageSize).
		Limit(criteria.PageSize).
		Find(&salePOs).Error; err != nil {
		return nil, 0, err
	}

	sales := make([]*sale.Sale, len(salePOs))
	for i := range salePOs {
		loaded, err := r.loadLines(db, &salePOs[i])
		if err != nil {
			return nil, 0, err
		}
		sales[i] = loaded
	}

	return sales, total, nil
}

// loadLines queries the sale's lines and rebuilds the aggregate.
// Lines are queried manually instead of Preload to keep aggregate
// boundaries clear.
func (r *SaleRepository) loadLines(db *gorm.DB, salePO *po.SalePO) (*sale.Sale, error) {
	var linePOs []po.SaleLinePO
	if err := db.Where("sale_id = ?", salePO.ID).Find(&linePOs).Error; err != nil {
		return nil, err
	}
	return salePO.ToDomain(linePOs), nil
}

// Compile-time interface implementation check
var _ sale.Repository = (*SaleRepository)(nil)
