package sale

import (
	"fmt"
	"strings"

	"github.com/dschaly/developer-store-sales-api-sub000/domain/sale"
	"github.com/dschaly/developer-store-sales-api-sub000/domain/shared"
)

// Command validation is pure data-in/violations-out. Validators are built
// once when the application service is constructed and reused for every
// request; they hold no per-call state.

// CreateSaleValidator validates a CreateSaleRequest against structural rules
// and the discount policy's sellable bounds.
type CreateSaleValidator func(req CreateSaleRequest) []shared.Violation

// NewCreateSaleValidator builds the validator for the given discount policy.
func NewCreateSaleValidator(policy *sale.DiscountPolicy) CreateSaleValidator {
	maxQuantity := policy.MaxQuantity()

	return func(req CreateSaleRequest) []shared.Violation {
		var violations []shared.Violation

		if strings.TrimSpace(req.CustomerID) == "" {
			violations = append(violations, shared.Violation{
				Field:  "customer_id",
				Detail: "customer id is required",
			})
		}
		if strings.TrimSpace(req.BranchID) == "" {
			violations = append(violations, shared.Violation{
				Field:  "branch_id",
				Detail: "branch id is required",
			})
		}
		if len(req.Items) == 0 {
			violations = append(violations, shared.Violation{
				Field:  "items",
				Detail: "a sale requires at least one item",
			})
		}

		for i, item := range req.Items {
			field := fmt.Sprintf("items[%d]", i)
			if strings.TrimSpace(item.ProductID) == "" {
				violations = append(violations, shared.Violation{
					Field:  field + ".product_id",
					Detail: "product id is required",
				})
			}
			if item.Quantity <= 0 {
				violations = append(violations, shared.Violation{
					Field:  field + ".quantity",
					Detail: fmt.Sprintf("quantity must be positive, got %d", item.Quantity),
				})
			} else if item.Quantity > maxQuantity {
				violations = append(violations, shared.Violation{
					Field:  field + ".quantity",
					Detail: fmt.Sprintf("quantity %d exceeds the maximum of %d identical items per sale", item.Quantity, maxQuantity),
				})
			}
		}

		return violations
	}
}
