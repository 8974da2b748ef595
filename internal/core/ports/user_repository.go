package ports

import (
	"context"

	"github.com/salesdesk/sales-management/internal/core/domain"
)

// UserListFilter carries the query parameters of the user listing.
type UserListFilter struct {
	Role   string // optional: exact role
	Search string // optional: case-insensitive match on email, first or last name
	Sort   string // optional: field name, "-" prefix for descending
	Page   domain.PageRequest
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserListFilter) ([]*domain.User, int64, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
}
