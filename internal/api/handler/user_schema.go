package handler

import "github.com/salesdesk/sales-management/internal/core/domain"

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Role      string `json:"role" validate:"omitempty,oneof=admin manager sales_rep"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty,min=6"`
}

type updateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Role      *string `json:"role" validate:"omitempty,oneof=admin manager sales_rep"`
}

type listUsersQuery struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Role   string `query:"role"`
	Search string `query:"search"`
	Sort   string `query:"sort"`
}

// authResponse documents the register/login payload.
type authResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// userPage documents the user listing payload.
type userPage struct {
	Data       []*domain.User    `json:"data"`
	Pagination domain.Pagination `json:"pagination"`
}
