package ports

import (
	"context"

	"github.com/salesdesk/sales-management/internal/core/domain"
)

// CreateCustomerInput carries the data of a new customer.
type CreateCustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Address string
}

// UpdateCustomerInput holds a partial update. Nil fields are left untouched.
type UpdateCustomerInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Company *string
	Address *string
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, input CreateCustomerInput) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, filter CustomerListFilter) (*domain.Page[*domain.Customer], error)
	SearchCustomers(ctx context.Context, query string) ([]*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id string, input UpdateCustomerInput) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	AddNote(ctx context.Context, customerID, content string) (*domain.Customer, error)
	UpdateNote(ctx context.Context, customerID, noteID, content string) (*domain.Customer, error)
	DeleteNote(ctx context.Context, customerID, noteID string) error
}
