package handler

import "github.com/salesdesk/sales-management/internal/core/domain"

type createCustomerRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Address string `json:"address"`
}

type updateCustomerRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Address *string `json:"address"`
}

type noteRequest struct {
	Content string `json:"content" validate:"required"`
}

type listCustomersQuery struct {
	Page    int    `query:"page"`
	Limit   int    `query:"limit"`
	Name    string `query:"name"`
	Email   string `query:"email"`
	Company string `query:"company"`
	Phone   string `query:"phone"`
	Sort    string `query:"sort"`
}

// customerPage documents the customer listing payload.
type customerPage struct {
	Data       []*domain.Customer `json:"data"`
	Pagination domain.Pagination  `json:"pagination"`
}
