package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/salesdesk/sales-management/internal/core/domain"
	"github.com/salesdesk/sales-management/internal/core/service"
)

func issueToken(t *testing.T, tokens *service.TokenService, role string) string {
	t.Helper()
	signed, err := tokens.Issue(&domain.User{ID: "u-1", Email: "alice@example.com", Role: role})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	tokens := service.NewTokenService("secret", time.Hour)
	signed := issueToken(t, tokens, domain.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(tokens)(func(c echo.Context) error {
		called = true
		if c.Get(ContextKeyUserID) != "u-1" {
			t.Fatalf("user_id not set")
		}
		if c.Get(ContextKeyRole) != domain.RoleAdmin {
			t.Fatalf("role not set")
		}
		claims, ok := domain.ClaimsFromContext(c.Request().Context())
		if !ok {
			t.Fatalf("claims not in request context")
		}
		if claims.Email != "alice@example.com" || claims.Raw != signed {
			t.Fatalf("unexpected claims: %+v", claims)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	other := service.NewTokenService("other-secret", time.Hour)

	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"missing header", "", domain.ErrMissingCredential},
		{"wrong scheme", "Token abc", domain.ErrMissingCredential},
		{"malformed", "Bearer not-a-token", nil},
		{"wrong secret", "Bearer " + issueToken(t, other, domain.RoleAdmin), nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := Auth(tokens)(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			err := handler(c)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if k := domain.KindOf(err); k != domain.KindMissingCredential && k != domain.KindInvalidCredential {
				t.Fatalf("expected credential error, got kind %s", k)
			}
		})
	}
}
