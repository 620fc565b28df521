/*
Package product Product collaborator for the sale subdomain.

Sales reference products by opaque identifier only. The only thing the
pricing pass needs from here is the current unit price; full product
management lives outside this service.
*/
package product

import (
	"context"
	"time"

	"github.com/dschaly/developer-store-sales-api-sub000/domain/shared"
)

// Product A sellable item with its current unit price.
type Product struct {
	id        string
	name      string
	unitPrice shared.Money
	active    bool
	createdAt time.Time
	updatedAt time.Time
}

// ReconstructionDTO Product reconstruction data for the repository layer.
type ReconstructionDTO struct {
	ID        string
	Name      string
	UnitPrice shared.Money
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RebuildFromDTO reconstructs a Product from persisted state.
func RebuildFromDTO(dto ReconstructionDTO) *Product {
	return &Product{
		id:        dto.ID,
		name:      dto.Name,
		unitPrice: dto.UnitPrice,
		active:    dto.Active,
		createdAt: dto.CreatedAt,
		updatedAt: dto.UpdatedAt,
	}
}

func (p *Product) ID() string               { return p.id }
func (p *Product) Name() string             { return p.name }
func (p *Product) UnitPrice() shared.Money  { return p.unitPrice }
func (p *Product) IsActive() bool           { return p.active }
func (p *Product) CreatedAt() time.Time     { return p.createdAt }
func (p *Product) UpdatedAt() time.Time     { return p.updatedAt }

// Repository Product repository interface
type Repository interface {
	// FindByID loads a product by ID
	FindByID(ctx context.Context, id string) (*Product, error)
}
