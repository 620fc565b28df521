package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/dschaly/developer-store-sales-api-sub000/domain/sale"

	"github.com/google/uuid"
)

// MockSaleRepository is an in-memory sale repository for testing and for
// running the service without a database. Aggregates are stored by value
// snapshot (via the reconstruction DTO round trip happens at the caller);
// here we simply keep the pointers, which is fine for single-process use.
type MockSaleRepository struct {
	mu    sync.RWMutex
	sales map[string]*sale.Sale

	// SaveErr, when set, is returned by Save to simulate persistence failures.
	SaveErr error
}

// NewMockSaleRepository creates an empty in-memory sale repository.
func NewMockSaleRepository() *MockSaleRepository {
	return &MockSaleRepository{
		sales: make(map[string]*sale.Sale),
	}
}

// NextIdentity Generate new sale ID
func (r *MockSaleRepository) NextIdentity() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Save stores the sale, incrementing its version like the real repository.
func (r *MockSaleRepository) Save(ctx context.Context, s *sale.Sale) error {
	if r.SaveErr != nil {
		return r.SaveErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	s.IncrementVersionForSave()
	r.sales[s.ID()] = s
	return nil
}

// FindByID Find sale by ID
func (r *MockSaleRepository) FindByID(ctx context.Context, id string) (*sale.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sales[id]
	if !ok {
		return nil, sale.NewSaleNotFoundError(id)
	}
	return s, nil
}

// FindByLineID Find the sale that owns the given line
func (r *MockSaleRepository) FindByLineID(ctx context.Context, lineID string) (*sale.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sales {
		for _, line := range s.Lines() {
			if line.ID() == lineID {
				return s, nil
			}
		}
	}
	return nil, sale.NewItemNotFoundError(lineID)
}

// Search Find sales by typed criteria with pagination
func (r *MockSaleRepository) Search(ctx context.Context, criteria sale.SearchCriteria) ([]*sale.Sale, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*sale.Sale
	for _, s := range r.sales {
		if criteria.CustomerID != "" && s.CustomerID() != criteria.CustomerID {
			continue
		}
		if criteria.BranchID != "" && s.BranchID() != criteria.BranchID {
			continue
		}
		if criteria.Cancelled != nil && s.IsCancelled() != *criteria.Cancelled {
			continue
		}
		if !criteria.CreatedAfter.IsZero() && s.CreatedAt().Before(criteria.CreatedAfter) {
			continue
		}
		if !criteria.CreatedUntil.IsZero() && !s.CreatedAt().Before(criteria.CreatedUntil) {
			continue
		}
		matches = append(matches, s)
	}

	sortSales(matches, criteria.SortBy, criteria.SortOrder)

	total := int64(len(matches))
	start := (criteria.Page - 1) * criteria.PageSize
	if start >= len(matches) {
		return nil, total, nil
	}
	end := start + criteria.PageSize
	if end > len(matches) {
		end = len(matches)
	}

	return matches[start:end], total, nil
}

func sortSales(sales []*sale.Sale, field sale.SortField, order sale.SortOrder) {
	less := func(a, b *sale.Sale) bool {
		switch field {
		case sale.SortBySaleNumber:
			return a.SaleNumber() < b.SaleNumber()
		case sale.SortByTotalAmount:
			return a.TotalAmount().Amount() < b.TotalAmount().Amount()
		default:
			return a.CreatedAt().Before(b.CreatedAt())
		}
	}
	sort.SliceStable(sales, func(i, j int) bool {
		if order == sale.SortDesc {
			return less(sales[j], sales[i])
		}
		return less(sales[i], sales[j])
	})
}

var _ sale.Repository = (*MockSaleRepository)(nil)
