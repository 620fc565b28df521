package sale

import (
	"github.com/dschaly/developer-store-sales-api-sub000/domain/sale"
	"github.com/dschaly/developer-store-sales-api-sub000/domain/shared"
)

func toMoneyResponse(m shared.Money) MoneyResponse {
	return MoneyResponse{
		Amount:   m.Amount(),
		Currency: m.Currency(),
	}
}

func toSaleResponse(s *sale.Sale) *SaleResponse {
	lines := s.Lines()
	items := make([]SaleItemResponse, len(lines))
	for i, line := range lines {
		items[i] = SaleItemResponse{
			ID:          line.ID(),
			ProductID:   line.ProductID(),
			Quantity:    line.Quantity(),
			UnitPrice:   toMoneyResponse(line.UnitPrice()),
			Discount:    toMoneyResponse(line.Discount()),
			TotalAmount: toMoneyResponse(line.TotalAmount()),
		}
	}

	return &SaleResponse{
		ID:          s.ID(),
		SaleNumber:  s.SaleNumber(),
		CustomerID:  s.CustomerID(),
		BranchID:    s.BranchID(),
		Items:       items,
		TotalAmount: toMoneyResponse(s.TotalAmount()),
		IsCancelled: s.IsCancelled(),
		CreatedAt:   s.CreatedAt(),
		UpdatedAt:   s.UpdatedAt(),
		CreatedBy:   s.CreatedBy(),
		UpdatedBy:   s.UpdatedBy(),
	}
}
