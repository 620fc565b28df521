/*
Package sale Application layer - sale use-case orchestration

Responsibilities:
1. Validate commands (pure data-in/violations-out, validators built once)
2. Sequence product lookup, line pricing, aggregate mutation and persistence
3. Run each operation in one unit of work so state and events commit together
4. Surface every domain failure unchanged; no silent correction

Application services never publish events directly. The unit of work collects
events from the registered aggregates and saves them to the outbox table in
the commit transaction; the outbox relay publishes them afterwards. A publish
failure is never rolled back against the committed state change.
*/
package sale

import (
	"context"
	"time"

	"github.com/dschaly/developer-store-sales-api-sub000/domain/product"
	"github.com/dschaly/developer-store-sales-api-sub000/domain/sale"
	"github.com/dschaly/developer-store-sales-api-sub000/domain/shared"
	"github.com/dschaly/developer-store-sales-api-sub000/pkg/errors"
)

// ApplicationService coordinates the sale use cases.
type ApplicationService struct {
	saleRepo       sale.Repository
	productReader  sale.ProductReader
	policy         *sale.DiscountPolicy
	uowFactory     shared.UnitOfWorkFactory
	validateCreate CreateSaleValidator
}

// NewApplicationService creates the sale application service.
func NewApplicationService(
	saleRepo sale.Repository,
	productRepo product.Repository,
	policy *sale.DiscountPolicy,
	uowFactory shared.UnitOfWorkFactory,
) *ApplicationService {
	return &ApplicationService{
		saleRepo:       saleRepo,
		productReader:  &productReaderAdapter{productRepo: productRepo},
		policy:         policy,
		uowFactory:     uowFactory,
		validateCreate: NewCreateSaleValidator(policy),
	}
}

// CreateSale prices every requested line from the product collaborator's
// current unit price, builds the sale, and persists it with its creation
// event in one transaction.
func (s *ApplicationService) CreateSale(ctx context.Context, actor string, req CreateSaleRequest) (*SaleResponse, error) {
	if violations := s.validateCreate(req); len(violations) > 0 {
		return nil, errors.Validation("invalid create sale command", violations...)
	}

	var created *sale.Sale

	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		requests := make([]sale.LineRequest, len(req.Items))
		for i, item := range req.Items {
			// One price lookup per line per pricing pass
			unitPrice, err := s.productReader.UnitPrice(ctx, item.ProductID)
			if err != nil {
				return err
			}
			requests[i] = sale.LineRequest{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: *unitPrice,
			}
		}

		newSale, err := sale.NewSale(req.CustomerID, req.BranchID, requests, s.policy)
		if err != nil {
			return err
		}
		newSale.AttributeCreation(actor)

		if err := s.saleRepo.Save(ctx, newSale); err != nil {
			return err
		}

		uow.RegisterNew(newSale)
		created = newSale
		return nil
	})

	if err != nil {
		return nil, err
	}

	return toSaleResponse(created), nil
}

// GetSale loads one sale by ID.
func (s *ApplicationService) GetSale(ctx context.Context, saleID string) (*SaleResponse, error) {
	loaded, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	return toSaleResponse(loaded), nil
}

// SearchSales lists sales by typed filters and a closed set of sort fields.
func (s *ApplicationService) SearchSales(ctx context.Context, req SearchSalesRequest) ([]*SaleResponse, int64, error) {
	criteria, err := toSearchCriteria(req)
	if err != nil {
		return nil, 0, err
	}

	sales, total, err := s.saleRepo.Search(ctx, *criteria)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*SaleResponse, len(sales))
	for i, match := range sales {
		responses[i] = toSaleResponse(match)
	}

	return responses, total, nil
}

// CancelSale transitions a sale to its terminal state and persists the
// cancellation fact carrying the frozen total.
func (s *ApplicationService) CancelSale(ctx context.Context, actor, saleID string) (*SaleResponse, error) {
	var cancelled *sale.Sale

	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		loaded, err := s.saleRepo.FindByID(ctx, saleID)
		if err != nil {
			return err
		}

		if err := loaded.Cancel(); err != nil {
			return err
		}
		loaded.AttributeUpdate(actor)

		if err := s.saleRepo.Save(ctx, loaded); err != nil {
			return err
		}

		uow.RegisterDirty(loaded)
		cancelled = loaded
		return nil
	})

	if err != nil {
		return nil, err
	}

	return toSaleResponse(cancelled), nil
}

// CancelSaleLine removes one line from its parent sale, reprices every
// remaining line from fresh unit prices (prices may have moved since
// creation, so this is a full pass, not a patch), recalculates the total,
// and records the fact bracketing the old and new totals.
func (s *ApplicationService) CancelSaleLine(ctx context.Context, actor, saleID, lineID string) (*CancelSaleLineResponse, error) {
	var updated *sale.Sale
	var previousTotal shared.Money

	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		loaded, err := s.saleRepo.FindByLineID(ctx, lineID)
		if err != nil {
			return err
		}
		if loaded.ID() != saleID {
			// The line exists but under a different sale
			return sale.NewItemNotFoundError(lineID)
		}
		previousTotal = loaded.TotalAmount()

		removed, err := loaded.CancelLine(lineID)
		if err != nil {
			return err
		}

		prices, err := s.currentPrices(ctx, loaded)
		if err != nil {
			return err
		}
		if err := loaded.Reprice(s.policy, prices); err != nil {
			return err
		}

		loaded.RecordLineCancellation(removed.ProductID(), previousTotal)
		loaded.AttributeUpdate(actor)

		if err := s.saleRepo.Save(ctx, loaded); err != nil {
			return err
		}

		uow.RegisterDirty(loaded)
		updated = loaded
		return nil
	})

	if err != nil {
		return nil, err
	}

	return &CancelSaleLineResponse{
		Sale:          toSaleResponse(updated),
		PreviousTotal: toMoneyResponse(previousTotal),
		NewTotal:      toMoneyResponse(updated.TotalAmount()),
	}, nil
}

// currentPrices looks up the current unit price for every line of the sale.
func (s *ApplicationService) currentPrices(ctx context.Context, loaded *sale.Sale) (map[string]shared.Money, error) {
	lines := loaded.Lines()
	prices := make(map[string]shared.Money, len(lines))
	for _, line := range lines {
		if _, ok := prices[line.ProductID()]; ok {
			continue
		}
		unitPrice, err := s.productReader.UnitPrice(ctx, line.ProductID())
		if err != nil {
			return nil, err
		}
		prices[line.ProductID()] = *unitPrice
	}
	return prices, nil
}

func toSearchCriteria(req SearchSalesRequest) (*sale.SearchCriteria, error) {
	sortBy, err := sale.ParseSortField(req.SortBy)
	if err != nil {
		return nil, err
	}
	sortOrder, err := sale.ParseSortOrder(req.SortOrder)
	if err != nil {
		return nil, err
	}

	criteria := &sale.SearchCriteria{
		CustomerID: req.CustomerID,
		BranchID:   req.BranchID,
		Cancelled:  req.Cancelled,
		SortBy:     sortBy,
		SortOrder:  sortOrder,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}

	if req.CreatedAfter != "" {
		t, err := time.Parse(time.RFC3339, req.CreatedAfter)
		if err != nil {
			return nil, shared.NewValidationError("sale", "created_after", "must be an RFC 3339 timestamp")
		}
		criteria.CreatedAfter = t
	}
	if req.CreatedUntil != "" {
		t, err := time.Parse(time.RFC3339, req.CreatedUntil)
		if err != nil {
			return nil, shared.NewValidationError("sale", "created_until", "must be an RFC 3339 timestamp")
		}
		criteria.CreatedUntil = t
	}

	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 || criteria.PageSize > 100 {
		criteria.PageSize = 20
	}

	return criteria, nil
}
