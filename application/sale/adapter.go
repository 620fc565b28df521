package sale

import (
	"context"

	"github.com/dschaly/developer-store-sales-api-sub000/domain/product"
	"github.com/dschaly/developer-store-sales-api-sub000/domain/sale"
	"github.com/dschaly/developer-store-sales-api-sub000/domain/shared"
)

// productReaderAdapter adapts product.Repository to the price lookup
// interface the sale domain depends on.
type productReaderAdapter struct {
	productRepo product.Repository
}

func (a *productReaderAdapter) UnitPrice(ctx context.Context, productID string) (*shared.Money, error) {
	p, err := a.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, shared.NewValidationError("product", "productId", "product "+productID+" is not sellable")
	}
	price := p.UnitPrice()
	return &price, nil
}

var _ sale.ProductReader = (*productReaderAdapter)(nil)
