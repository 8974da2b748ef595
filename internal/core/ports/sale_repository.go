package ports

import (
	"context"

	"github.com/salesdesk/sales-management/internal/core/domain"
)

// SaleListFilter carries the query parameters of the sale listing.
type SaleListFilter struct {
	Filter domain.SaleFilter
	Page   domain.PageRequest
}

// SaleRepository defines persistence operations for sales.
type SaleRepository interface {
	Create(ctx context.Context, s *domain.Sale) error
	FindByID(ctx context.Context, id string) (*domain.Sale, error)
	// List returns a page of sales, newest first, and the total count.
	List(ctx context.Context, filter SaleListFilter) ([]*domain.Sale, int64, error)
	// FindAll returns every sale matching filter, newest first.
	FindAll(ctx context.Context, filter domain.SaleFilter) ([]*domain.Sale, error)
	// Update stores s. When change is non-nil it is appended to the status history
	// in the same write.
	Update(ctx context.Context, s *domain.Sale, change *domain.StatusChange) error
	Delete(ctx context.Context, id string) error
}

// CustomerDirectory resolves customers owned by another service.
type CustomerDirectory interface {
	// Lookup returns domain.ErrCustomerNotFound when the customer does not exist.
	Lookup(ctx context.Context, customerID string) (*domain.CustomerSummary, error)
}

// IdempotencyStore reserves client-supplied keys so that concurrent retries
// of one submission create at most one sale.
type IdempotencyStore interface {
	// Claim reserves key. When the key is already taken it reports false and
	// the sale id bound to it, which is empty while the first submission is
	// still in flight.
	Claim(ctx context.Context, key string) (claimed bool, saleID string, err error)
	// Complete binds a claimed key to the sale it produced.
	Complete(ctx context.Context, key, saleID string) error
	// Release drops a claim whose submission failed.
	Release(ctx context.Context, key string) error
}
