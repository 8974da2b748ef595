package ports

import "github.com/salesdesk/sales-management/internal/core/domain"

// TokenIssuer signs credentials for an authenticated user.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// TokenVerifier turns an Authorization header value into verified claims.
// Implementations must be safe for concurrent use.
type TokenVerifier interface {
	Verify(rawHeader string) (*domain.Claims, error)
}
