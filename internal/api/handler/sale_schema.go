package handler

import (
	"time"

	"github.com/salesdesk/sales-management/internal/core/domain"
)

// HeaderIdempotencyKey names the optional header that makes sale creation replayable.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotentReplayed is set on responses answered from an earlier submission.
const HeaderIdempotentReplayed = "Idempotent-Replayed"

type productRequest struct {
	Name     string  `json:"name" validate:"required"`
	Quantity int     `json:"quantity" validate:"gte=1"`
	Price    float64 `json:"price" validate:"gte=0"`
}

type createSaleRequest struct {
	CustomerID    string           `json:"customerId" validate:"required"`
	UserID        string           `json:"userId"`
	Products      []productRequest `json:"products" validate:"required,min=1,dive"`
	TotalAmount   *float64         `json:"totalAmount" validate:"omitempty,gte=0"`
	PaymentMethod string           `json:"paymentMethod" validate:"required,oneof=cash credit_card bank_transfer"`
	Status        string           `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
}

type updateSaleRequest struct {
	CustomerID    *string          `json:"customerId"`
	Products      []productRequest `json:"products" validate:"omitempty,min=1,dive"`
	TotalAmount   *float64         `json:"totalAmount" validate:"omitempty,gte=0"`
	PaymentMethod *string          `json:"paymentMethod" validate:"omitempty,oneof=cash credit_card bank_transfer"`
	Status        *string          `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
	Notes         string           `json:"notes"`
}

type listSalesQuery struct {
	Page       int    `query:"page"`
	Limit      int    `query:"limit"`
	Status     string `query:"status"`
	CustomerID string `query:"customerId"`
	UserID     string `query:"userId"`
	StartDate  string `query:"startDate"`
	EndDate    string `query:"endDate"`
}

// salePage documents the sale listing payload.
type salePage struct {
	Data       []*domain.Sale    `json:"data"`
	Pagination domain.Pagination `json:"pagination"`
}

func toProducts(in []productRequest) []domain.Product {
	if in == nil {
		return nil
	}
	out := make([]domain.Product, len(in))
	for i, p := range in {
		out[i] = domain.Product{Name: p.Name, Quantity: p.Quantity, Price: p.Price}
	}
	return out
}

// parseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates (midnight UTC).
func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, domain.Invalid(field + " must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
}

func (q listSalesQuery) filter() (domain.SaleFilter, error) {
	start, err := parseDate("startDate", q.StartDate)
	if err != nil {
		return domain.SaleFilter{}, err
	}
	end, err := parseDate("endDate", q.EndDate)
	if err != nil {
		return domain.SaleFilter{}, err
	}
	return domain.SaleFilter{
		Status:     domain.SaleStatus(q.Status),
		CustomerID: q.CustomerID,
		UserID:     q.UserID,
		StartDate:  start,
		EndDate:    end,
	}, nil
}
