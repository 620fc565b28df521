package sale

import (
	"context"
	"testing"
	"time"

	"github.com/dschaly/developer-store-sales-api-sub000/domain/product"
	domainsale "github.com/dschaly/developer-store-sales-api-sub000/domain/sale"
	"github.com/dschaly/developer-store-sales-api-sub000/domain/shared"
	"github.com/dschaly/developer-store-sales-api-sub000/infrastructure/persistence/mocks"
	pkgerrors "github.com/dschaly/developer-store-sales-api-sub000/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	service     *ApplicationService
	saleRepo    *mocks.MockSaleRepository
	productRepo *mocks.MockProductRepository
	uowFactory  *mocks.MockUnitOfWorkFactory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	saleRepo := mocks.NewMockSaleRepository()
	productRepo := mocks.NewMockProductRepository()
	uowFactory := mocks.NewMockUnitOfWorkFactory()

	now := time.Now()
	seed := []product.ReconstructionDTO{
		{ID: "prod-001", Name: "Keyboard", UnitPrice: *shared.NewMoney(2000, "USD"), Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: "prod-002", Name: "Mouse", UnitPrice: *shared.NewMoney(500, "USD"), Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: "prod-inactive", Name: "Retired", UnitPrice: *shared.NewMoney(100, "USD"), Active: false, CreatedAt: now, UpdatedAt: now},
	}
	for _, dto := range seed {
		productRepo.Add(product.RebuildFromDTO(dto))
	}

	service := NewApplicationService(saleRepo, productRepo, domainsale.DefaultDiscountPolicy(), uowFactory)

	return &fixture{
		service:     service,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		uowFactory:  uowFactory,
	}
}

func createRequest() CreateSaleRequest {
	return CreateSaleRequest{
		CustomerID: "cust-1",
		BranchID:   "branch-1",
		Items: []SaleItemRequest{
			{ProductID: "prod-001", Quantity: 5},
			{ProductID: "prod-002", Quantity: 2},
		},
	}
}

func TestCreateSale(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.CreateSale(context.Background(), "admin", createRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Regexp(t, `^S-\d{8}-[0-9A-F]{8}$`, result.SaleNumber)
	assert.Equal(t, "cust-1", result.CustomerID)
	assert.Equal(t, "admin", result.CreatedBy)
	assert.False(t, result.IsCancelled)
	require.Len(t, result.Items, 2)

	// 5 x 20.00 at 10% plus 2 x 5.00 undiscounted
	assert.Equal(t, int64(1000), result.Items[0].Discount.Amount)
	assert.Equal(t, int64(9000), result.Items[0].TotalAmount.Amount)
	assert.Equal(t, int64(10000), result.TotalAmount.Amount)

	// The creation fact reaches the outbox in the same unit of work
	require.Len(t, f.uowFactory.Last.Published, 1)
	assert.Equal(t, "sale.created", f.uowFactory.Last.Published[0].EventName())

	stored, err := f.saleRepo.FindByID(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Version(), "saving bumps the optimistic lock version")
}

func TestCreateSaleValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		mutate func(*CreateSaleRequest)
	}{
		{"missing customer", func(r *CreateSaleRequest) { r.CustomerID = "" }},
		{"missing branch", func(r *CreateSaleRequest) { r.BranchID = "" }},
		{"no items", func(r *CreateSaleRequest) { r.Items = nil }},
		{"zero quantity", func(r *CreateSaleRequest) { r.Items[0].Quantity = 0 }},
		{"over limit", func(r *CreateSaleRequest) { r.Items[0].Quantity = 21 }},
		{"missing product id", func(r *CreateSaleRequest) { r.Items[0].ProductID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := createRequest()
			tt.mutate(&req)

			_, err := f.service.CreateSale(context.Background(), "admin", req)
			assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation), "want validation error, got %v", err)
		})
	}
}

func TestCreateSaleUnknownProduct(t *testing.T) {
	f := newFixture(t)

	req := createRequest()
	req.Items[0].ProductID = "prod-missing"

	_, err := f.service.CreateSale(context.Background(), "admin", req)
	assert.ErrorIs(t, err, domainsale.ErrProductNotFound)
}

func TestCreateSaleInactiveProduct(t *testing.T) {
	f := newFixture(t)

	req := createRequest()
	req.Items[0].ProductID = "prod-inactive"

	_, err := f.service.CreateSale(context.Background(), "admin", req)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestGetSale(t *testing.T) {
	f := newFixture(t)
	created, err := f.service.CreateSale(context.Background(), "admin", createRequest())
	require.NoError(t, err)

	loaded, err := f.service.GetSale(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.SaleNumber, loaded.SaleNumber)

	_, err = f.service.GetSale(context.Background(), "no-such-sale")
	assert.ErrorIs(t, err, domainsale.ErrSaleNotFound)
}

func TestCancelSale(t *testing.T) {
	f := newFixture(t)
	created, err := f.service.CreateSale(context.Background(), "admin", createRequest())
	require.NoError(t, err)

	cancelled, err := f.service.CancelSale(context.Background(), "manager", created.ID)
	require.NoError(t, err)
	assert.True(t, cancelled.IsCancelled)
	assert.Equal(t, "manager", cancelled.UpdatedBy)
	assert.Equal(t, created.TotalAmount.Amount, cancelled.TotalAmount.Amount, "cancellation freezes the total")

	require.Len(t, f.uowFactory.Last.Published, 1)
	assert.Equal(t, "sale.cancelled", f.uowFactory.Last.Published[0].EventName())

	_, err = f.service.CancelSale(context.Background(), "manager", created.ID)
	assert.ErrorIs(t, err, domainsale.ErrSaleAlreadyCancelled)
}

func TestCancelSaleLine(t *testing.T) {
	f := newFixture(t)
	created, err := f.service.CreateSale(context.Background(), "admin", createRequest())
	require.NoError(t, err)

	result, err := f.service.CancelSaleLine(context.Background(), "manager", created.ID, created.Items[1].ID)
	require.NoError(t, err)

	assert.Equal(t, int64(10000), result.PreviousTotal.Amount)
	assert.Equal(t, int64(9000), result.NewTotal.Amount)
	require.Len(t, result.Sale.Items, 1)
	assert.Equal(t, "prod-001", result.Sale.Items[0].ProductID)

	require.Len(t, f.uowFactory.Last.Published, 1)
	assert.Equal(t, "sale.item_cancelled", f.uowFactory.Last.Published[0].EventName())
}

func TestCancelSaleLineRepricesRemaining(t *testing.T) {
	f := newFixture(t)
	created, err := f.service.CreateSale(context.Background(), "admin", createRequest())
	require.NoError(t, err)

	// prod-001 price moved since the sale was created
	now := time.Now()
	f.productRepo.Add(product.RebuildFromDTO(product.ReconstructionDTO{
		ID: "prod-001", Name: "Keyboard", UnitPrice: *shared.NewMoney(3000, "USD"),
		Active: true, CreatedAt: now, UpdatedAt: now,
	}))

	result, err := f.service.CancelSaleLine(context.Background(), "manager", created.ID, created.Items[1].ID)
	require.NoError(t, err)

	// 5 x 30.00 at 10%: total 135.00
	assert.Equal(t, int64(13500), result.NewTotal.Amount)
	assert.Equal(t, int64(13500), result.Sale.Items[0].TotalAmount.Amount)
}

func TestCancelLastSaleLineRejected(t *testing.T) {
	f := newFixture(t)

	req := CreateSaleRequest{
		CustomerID: "cust-1",
		BranchID:   "branch-1",
		Items:      []SaleItemRequest{{ProductID: "prod-001", Quantity: 1}},
	}
	created, err := f.service.CreateSale(context.Background(), "admin", req)
	require.NoError(t, err)

	_, err = f.service.CancelSaleLine(context.Background(), "manager", created.ID, created.Items[0].ID)
	assert.ErrorIs(t, err, domainsale.ErrLastItem)

	_, err = f.service.CancelSaleLine(context.Background(), "manager", created.ID, "no-such-line")
	assert.ErrorIs(t, err, domainsale.ErrItemNotFound)
}

func TestSearchSales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.CreateSale(ctx, "admin", createRequest())
	require.NoError(t, err)

	other := createRequest()
	other.CustomerID = "cust-2"
	_, err = f.service.CreateSale(ctx, "admin", other)
	require.NoError(t, err)

	_, err = f.service.CancelSale(ctx, "admin", first.ID)
	require.NoError(t, err)

	results, total, err := f.service.SearchSales(ctx, SearchSalesRequest{CustomerID: "cust-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, "cust-1", results[0].CustomerID)

	cancelled := true
	results, total, err = f.service.SearchSales(ctx, SearchSalesRequest{Cancelled: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.True(t, results[0].IsCancelled)

	results, total, err = f.service.SearchSales(ctx, SearchSalesRequest{
		SortBy:    "total_amount",
		SortOrder: "asc",
		Page:      1,
		PageSize:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, results, 1, "page size bounds the result set")
}

func TestSearchSalesRejectsUnknownSortField(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.service.SearchSales(context.Background(), SearchSalesRequest{SortBy: "customer_id"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, _, err = f.service.SearchSales(context.Background(), SearchSalesRequest{SortOrder: "sideways"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestSearchSalesRejectsBadTimestamps(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.service.SearchSales(context.Background(), SearchSalesRequest{CreatedAfter: "yesterday"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
