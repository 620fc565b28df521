package po

import (
	"time"

	"github.com/dschaly/developer-store-sales-api-sub000/domain/product"
	"github.com/dschaly/developer-store-sales-api-sub000/domain/shared"
)

// ProductPO Product persistence object
type ProductPO struct {
	ID            string    `gorm:"primaryKey;size:64"`
	Name          string    `gorm:"size:255;not null"`
	PriceAmount   int64     `gorm:"not null"`
	PriceCurrency string    `gorm:"size:3;not null"`
	Active        bool      `gorm:"not null;default:true"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (ProductPO) TableName() string {
	return "products"
}

// ToDomain Convert persistence object to domain model
func (po *ProductPO) ToDomain() *product.Product {
	return product.RebuildFromDTO(product.ReconstructionDTO{
		ID:        po.ID,
		Name:      po.Name,
		UnitPrice: *shared.NewMoney(po.PriceAmount, po.PriceCurrency),
		Active:    po.Active,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
	})
}

// FromProductDomain Convert domain model to persistence object
func FromProductDomain(p *product.Product) *ProductPO {
	return &ProductPO{
		ID:            p.ID(),
		Name:          p.Name(),
		PriceAmount:   p.UnitPrice().Amount(),
		PriceCurrency: p.UnitPrice().Currency(),
		Active:        p.IsActive(),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}
}
