package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/dschaly/developer-store-sales-api-sub000/domain/product"
	"github.com/dschaly/developer-store-sales-api-sub000/domain/sale"
	"github.com/dschaly/developer-store-sales-api-sub000/domain/shared"
)

// MockProductRepository is an in-memory product catalog for testing and for
// running the service without a database.
type MockProductRepository struct {
	mu       sync.RWMutex
	products map[string]*product.Product
}

// NewMockProductRepository creates an empty in-memory product repository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]*product.Product),
	}
}

// NewSeededProductRepository creates a repository preloaded with a small
// demo catalog, used when the service runs with the mock database type.
func NewSeededProductRepository() *MockProductRepository {
	repo := NewMockProductRepository()
	now := time.Now()
	seed := []product.ReconstructionDTO{
		{ID: "prod-001", Name: "Mechanical Keyboard", UnitPrice: *shared.NewMoney(12900, "USD"), Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: "prod-002", Name: "Wireless Mouse", UnitPrice: *shared.NewMoney(4900, "USD"), Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: "prod-003", Name: "USB-C Dock", UnitPrice: *shared.NewMoney(18900, "USD"), Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: "prod-004", Name: "Legacy Adapter", UnitPrice: *shared.NewMoney(1500, "USD"), Active: false, CreatedAt: now, UpdatedAt: now},
	}
	for _, dto := range seed {
		repo.Add(product.RebuildFromDTO(dto))
	}
	return repo
}

// Add stores a product. Intended for test setup.
func (r *MockProductRepository) Add(p *product.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID()] = p
}

// FindByID Find product by ID
func (r *MockProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, sale.NewProductNotFoundError(id)
	}
	return p, nil
}

var _ product.Repository = (*MockProductRepository)(nil)
