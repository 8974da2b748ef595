package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/salesdesk/sales-management/internal/core/domain"
	"github.com/salesdesk/sales-management/internal/core/ports"
)

// Echo context keys set by Auth.
const (
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "role"
)

// Auth verifies the bearer token and injects the claims into the request
// context. Verification failures are returned as domain errors for the
// central error handler.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := verifier.Verify(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}

			req := c.Request()
			c.SetRequest(req.WithContext(domain.ContextWithClaims(req.Context(), claims)))
			c.Set(ContextKeyUserID, claims.SubjectID)
			c.Set(ContextKeyRole, claims.Role)

			return next(c)
		}
	}
}
