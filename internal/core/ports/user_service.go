package ports

import (
	"context"

	"github.com/salesdesk/sales-management/internal/core/domain"
)

// RegisterInput carries the data needed to create an account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// UpdateProfileInput holds the fields a user may change on their own record.
// Nil fields are left untouched.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
}

// UpdateUserInput holds the fields an administrator may change.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Role      *string
}

type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error)
	ListUsers(ctx context.Context, filter UserListFilter) (*domain.Page[*domain.User], error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}
