package ports

import (
	"context"

	"github.com/salesdesk/sales-management/internal/core/domain"
)

// CustomerListFilter carries the query parameters of the customer listing.
type CustomerListFilter struct {
	Filter domain.CustomerFilter
	Sort   string // field name, "-" prefix for descending; empty = newest first
	Page   domain.PageRequest
}

// CustomerRepository defines persistence operations for customers.
type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context, filter CustomerListFilter) ([]*domain.Customer, int64, error)
	// Search matches query case-insensitively against name, email and company.
	Search(ctx context.Context, query string, limit int) ([]*domain.Customer, error)
	// Replace stores the whole record, notes included.
	Replace(ctx context.Context, c *domain.Customer) error
	Delete(ctx context.Context, id string) error
}
