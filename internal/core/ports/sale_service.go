package ports

import (
	"context"

	"github.com/salesdesk/sales-management/internal/core/domain"
)

// CreateSaleInput carries the data of a new sale.
type CreateSaleInput struct {
	CustomerID    string
	UserID        string
	Products      []domain.Product
	TotalAmount   *float64 // nil = sum of products
	PaymentMethod string
	Status        string // empty = pending
	// IdempotencyKey, when set, makes repeated submissions return the first sale.
	IdempotencyKey string
}

// CreateSaleResult is returned by CreateSale.
type CreateSaleResult struct {
	Sale *domain.Sale
	// Replayed is true when the Idempotency-Key matched an earlier sale.
	Replayed bool
}

// UpdateSaleInput holds a partial update. Nil fields are left untouched.
type UpdateSaleInput struct {
	CustomerID    *string
	Products      []domain.Product
	TotalAmount   *float64
	PaymentMethod *string
	Status        *string
	// StatusNotes is recorded with the history entry when Status changes.
	StatusNotes string
}

type SaleService interface {
	CreateSale(ctx context.Context, input CreateSaleInput) (*CreateSaleResult, error)
	GetSale(ctx context.Context, id string) (*domain.SaleDetail, error)
	ListSales(ctx context.Context, filter SaleListFilter) (*domain.Page[*domain.Sale], error)
	UpdateSale(ctx context.Context, id string, input UpdateSaleInput) (*domain.Sale, error)
	DeleteSale(ctx context.Context, id string) error
	SalesByCustomer(ctx context.Context, customerID string) ([]*domain.Sale, error)
	SalesByUser(ctx context.Context, userID string) ([]*domain.Sale, error)
}
