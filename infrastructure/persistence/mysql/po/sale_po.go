package po

import (
	"time"

	"github.com/dschaly/developer-store-sales-api-sub000/domain/sale"
	"github.com/dschaly/developer-store-sales-api-sub000/domain/shared"
)

// SalePO Sale persistence object
// Note: Only used for database mapping, does not contain any business logic
// Defining GORM associations is prohibited here
type SalePO struct {
	ID            string    `gorm:"primaryKey;size:64"`
	SaleNumber    string    `gorm:"size:32;uniqueIndex;not null"`
	CustomerID    string    `gorm:"size:64;index;not null"` // Only store ID, no association
	BranchID      string    `gorm:"size:64;index;not null"`
	TotalAmount   int64     `gorm:"not null"`
	TotalCurrency string    `gorm:"size:3;not null"`
	Cancelled     bool      `gorm:"not null;default:false;index"`
	Version       int       `gorm:"default:0"`
	CreatedAt     time.Time `gorm:"index;not null"`
	UpdatedAt     time.Time `gorm:"not null"`
	CreatedBy     string    `gorm:"size:64"`
	UpdatedBy     string    `gorm:"size:64"`
}

// TableName Specify table name
func (SalePO) TableName() string {
	return "sales"
}

// SaleLinePO Sale line persistence object
type SaleLinePO struct {
	ID               string `gorm:"primaryKey;size:64"`
	SaleID           string `gorm:"size:64;index;not null"` // Only store ID, no GORM association
	ProductID        string `gorm:"size:64;index;not null"`
	Quantity         int    `gorm:"not null"`
	UnitPrice        int64  `gorm:"not null"`
	UnitCurrency     string `gorm:"size:3;not null"`
	Discount         int64  `gorm:"not null"`
	DiscountCurrency string `gorm:"size:3;not null"`
	Total            int64  `gorm:"not null"`
	TotalCurrency    string `gorm:"size:3;not null"`
}

// TableName Specify table name
func (SaleLinePO) TableName() string {
	return "sale_lines"
}

// FromSaleDomain Convert domain model to persistence objects
func FromSaleDomain(s *sale.Sale) (*SalePO, []SaleLinePO) {
	salePO := &SalePO{
		ID:            s.ID(),
		SaleNumber:    s.SaleNumber(),
		CustomerID:    s.CustomerID(),
		BranchID:      s.BranchID(),
		TotalAmount:   s.TotalAmount().Amount(),
		TotalCurrency: s.TotalAmount().Currency(),
		Cancelled:     s.IsCancelled(),
		Version:       s.Version(),
		CreatedAt:     s.CreatedAt(),
		UpdatedAt:     s.UpdatedAt(),
		CreatedBy:     s.CreatedBy(),
		UpdatedBy:     s.UpdatedBy(),
	}

	lines := s.Lines()
	linePOs := make([]SaleLinePO, len(lines))
	for i, line := range lines {
		linePOs[i] = SaleLinePO{
			ID:               line.ID(), // Use domain object's ID for consistency
			SaleID:           s.ID(),
			ProductID:        line.ProductID(),
			Quantity:         line.Quantity(),
			UnitPrice:        line.UnitPrice().Amount(),
			UnitCurrency:     line.UnitPrice().Currency(),
			Discount:         line.Discount().Amount(),
			DiscountCurrency: line.Discount().Currency(),
			Total:            line.TotalAmount().Amount(),
			TotalCurrency:    line.TotalAmount().Currency(),
		}
	}

	return salePO, linePOs
}

// ToDomain Convert persistence objects to domain model
func (po *SalePO) ToDomain(linePOs []SaleLinePO) *sale.Sale {
	lines := make([]sale.Line, len(linePOs))
	for i, linePO := range linePOs {
		lines[i] = sale.RebuildLineFromDTO(sale.LineReconstructionDTO{
			ID:          linePO.ID,
			ProductID:   linePO.ProductID,
			Quantity:    linePO.Quantity,
			UnitPrice:   *shared.NewMoney(linePO.UnitPrice, linePO.UnitCurrency),
			Discount:    *shared.NewMoney(linePO.Discount, linePO.DiscountCurrency),
			TotalAmount: *shared.NewMoney(linePO.Total, linePO.TotalCurrency),
		})
	}

	return sale.RebuildFromDTO(sale.ReconstructionDTO{
		ID:          po.ID,
		SaleNumber:  po.SaleNumber,
		CustomerID:  po.CustomerID,
		BranchID:    po.BranchID,
		Lines:       lines,
		TotalAmount: *shared.NewMoney(po.TotalAmount, po.TotalCurrency),
		Cancelled:   po.Cancelled,
		Version:     po.Version,
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
		CreatedBy:   po.CreatedBy,
		UpdatedBy:   po.UpdatedBy,
	})
}
