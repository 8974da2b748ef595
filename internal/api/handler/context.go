package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/salesdesk/sales-management/internal/core/domain"
)

// ctxClaims returns the claims injected by the Auth middleware. Their absence
// means the route was wired without authentication, which is reported as a
// missing credential rather than served anonymously.
func ctxClaims(c echo.Context) (*domain.Claims, error) {
	claims, ok := domain.ClaimsFromContext(c.Request().Context())
	if !ok || claims.SubjectID == "" {
		return nil, domain.ErrMissingCredential
	}
	return claims, nil
}

// bindAndValidate decodes the request into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewError(domain.KindInvalidPayload, "Invalid request payload", err)
	}
	return c.Validate(req)
}

// pageRequest normalises the page and limit query parameters. Each list query
// struct declares Page and Limit itself because echo's binder skips unexported
// embedded structs.
func pageRequest(page, limit int) domain.PageRequest {
	return domain.PageRequest{Page: page, Limit: limit}.Normalize()
}
