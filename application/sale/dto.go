package sale

import "time"

// CreateSaleRequest Input for creating a sale. Lines carry only product and
// quantity; discounts and totals are derived by the pricing pass and never
// accepted from the caller.
type CreateSaleRequest struct {
	CustomerID string            `json:"customer_id" binding:"required"`
	BranchID   string            `json:"branch_id" binding:"required"`
	Items      []SaleItemRequest `json:"items" binding:"required,min=1"`
}

// SaleItemRequest One requested product+quantity pair.
type SaleItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// SearchSalesRequest Sale listing filters. SortBy is restricted to the
// domain's closed set of sortable fields.
type SearchSalesRequest struct {
	CustomerID   string `form:"customer_id"`
	BranchID     string `form:"branch_id"`
	Cancelled    *bool  `form:"cancelled"`
	CreatedAfter string `form:"created_after"` // RFC 3339
	CreatedUntil string `form:"created_until"` // RFC 3339
	SortBy       string `form:"sort_by"`
	SortOrder    string `form:"sort_order"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
}

// SaleResponse Sale representation returned to callers.
type SaleResponse struct {
	ID          string             `json:"id"`
	SaleNumber  string             `json:"sale_number"`
	CustomerID  string             `json:"customer_id"`
	BranchID    string             `json:"branch_id"`
	Items       []SaleItemResponse `json:"items"`
	TotalAmount MoneyResponse      `json:"total_amount"`
	IsCancelled bool               `json:"is_cancelled"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	CreatedBy   string             `json:"created_by,omitempty"`
	UpdatedBy   string             `json:"updated_by,omitempty"`
}

// SaleItemResponse Sale line representation.
type SaleItemResponse struct {
	ID          string        `json:"id"`
	ProductID   string        `json:"product_id"`
	Quantity    int           `json:"quantity"`
	UnitPrice   MoneyResponse `json:"unit_price"`
	Discount    MoneyResponse `json:"discount"`
	TotalAmount MoneyResponse `json:"total_amount"`
}

// MoneyResponse Monetary amount in minor units.
type MoneyResponse struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CancelSaleLineResponse Result of cancelling one line: the updated sale and
// the totals bracketing the change.
type CancelSaleLineResponse struct {
	Sale          *SaleResponse `json:"sale"`
	PreviousTotal MoneyResponse `json:"previous_total"`
	NewTotal      MoneyResponse `json:"new_total"`
}
