package domain

import (
	"fmt"
	"time"
)

// SaleStatus is the lifecycle state of a sale.
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s SaleStatus) Valid() bool {
	switch s {
	case SaleStatusPending, SaleStatusCompleted, SaleStatusCancelled:
		return true
	}
	return false
}

// PaymentMethod is how the customer paid.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentBankTransfer:
		return true
	}
	return false
}

// Product is one line item of a sale.
type Product struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// StatusChange records a transition of a sale's status.
type StatusChange struct {
	Status SaleStatus `json:"status"`
	Date   time.Time  `json:"date"`
	Notes  string     `json:"notes,omitempty"`
}

// Sale is a recorded transaction between a sales user and a customer.
type Sale struct {
	ID            string         `json:"id"`
	CustomerID    string         `json:"customerId"`
	UserID        string         `json:"userId"`
	Products      []Product      `json:"products"`
	TotalAmount   float64        `json:"totalAmount"`
	PaymentMethod PaymentMethod  `json:"paymentMethod"`
	Status        SaleStatus     `json:"status"`
	StatusHistory []StatusChange `json:"statusHistory"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// Validate enforces the invariants of a stored sale.
func (s *Sale) Validate() error {
	if s.CustomerID == "" {
		return Invalid("customerId is required")
	}
	if s.UserID == "" {
		return Invalid("userId is required")
	}
	if len(s.Products) == 0 {
		return Invalid("products must contain at least one item")
	}
	for i, p := range s.Products {
		if p.Name == "" {
			return Invalid(fmt.Sprintf("products[%d].name is required", i))
		}
		if p.Quantity < 1 {
			return Invalid(fmt.Sprintf("products[%d].quantity must be at least 1", i))
		}
		if p.Price < 0 {
			return Invalid(fmt.Sprintf("products[%d].price must be at least 0", i))
		}
	}
	if s.TotalAmount < 0 {
		return Invalid("totalAmount must be at least 0")
	}
	if !s.PaymentMethod.Valid() {
		return Invalid("paymentMethod must be one of: cash credit_card bank_transfer")
	}
	if !s.Status.Valid() {
		return Invalid("status must be one of: pending completed cancelled")
	}
	return nil
}

// ProductsTotal sums quantity * price over all products.
func ProductsTotal(products []Product) float64 {
	var total float64
	for _, p := range products {
		total += float64(p.Quantity) * p.Price
	}
	return total
}

// SaleFilter narrows sale listings. Zero values are ignored; the date range is inclusive.
type SaleFilter struct {
	Status     SaleStatus
	CustomerID string
	UserID     string
	StartDate  *time.Time
	EndDate    *time.Time
}

// CustomerSummary is the customer view embedded in a sale detail.
type CustomerSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
}

// SaleDetail is a sale with its customer resolved. Customer is nil when the
// customer no longer exists.
type SaleDetail struct {
	Sale
	Customer *CustomerSummary `json:"customer"`
}
