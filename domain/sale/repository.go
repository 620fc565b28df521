package sale

import (
	"context"
	"time"

	"github.com/dschaly/developer-store-sales-api-sub000/domain/shared"
)

// Repository Sale repository interface
type Repository interface {
	// NextIdentity generates a new sale ID
	NextIdentity() string

	// Save persists the sale aggregate root (create when Version() == 0,
	// conditional update otherwise). The repository only persists; events are
	// collected by the unit of work and saved to the outbox table.
	Save(ctx context.Context, s *Sale) error

	// FindByID loads the sale aggregate root by ID
	FindByID(ctx context.Context, id string) (*Sale, error)

	// FindByLineID locates the sale owning the given line
	FindByLineID(ctx context.Context, lineID string) (*Sale, error)

	// Search returns the sales matching the criteria plus the total match count
	Search(ctx context.Context, criteria SearchCriteria) ([]*Sale, int64, error)
}

// ProductReader The product price lookup collaborator. Called once per line
// per pricing pass; prices are never cached across passes.
type ProductReader interface {
	UnitPrice(ctx context.Context, productID string) (*shared.Money, error)
}

// ============================================================================
// Queries
// ============================================================================

// SortField The closed set of fields a sale listing may be ordered by.
// Unknown field names are rejected up front instead of being resolved
// dynamically against the storage schema.
type SortField string

const (
	SortBySaleNumber  SortField = "sale_number"
	SortByTotalAmount SortField = "total_amount"
	SortByCreatedAt   SortField = "created_at"
)

// ParseSortField maps a raw field name to the closed enumeration; an unknown
// name is a validation error.
func ParseSortField(raw string) (SortField, error) {
	switch SortField(raw) {
	case SortBySaleNumber, SortByTotalAmount, SortByCreatedAt:
		return SortField(raw), nil
	case "":
		return SortByCreatedAt, nil
	default:
		return "", shared.NewValidationError("sale", "sortBy", "unknown sort field: "+raw)
	}
}

// SortOrder Listing direction
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// ParseSortOrder maps a raw direction, defaulting to descending.
func ParseSortOrder(raw string) (SortOrder, error) {
	switch raw {
	case "", "desc", "DESC":
		return SortDesc, nil
	case "asc", "ASC":
		return SortAsc, nil
	default:
		return "", shared.NewValidationError("sale", "sortOrder", "unknown sort order: "+raw)
	}
}

// SearchCriteria Typed sale query filters. Zero values mean "no filter".
type SearchCriteria struct {
	CustomerID   string
	BranchID     string
	Cancelled    *bool
	CreatedAfter time.Time
	CreatedUntil time.Time
	SortBy       SortField
	SortOrder    SortOrder
	Page         int
	PageSize     int
}
