package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/salesdesk/sales-management/internal/core/domain"
)

func TestHTTPErrorHandler_MapsKinds(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"missing credential", domain.ErrMissingCredential, http.StatusUnauthorized, "Authentication token required"},
		{"expired", domain.ErrExpiredCredential, http.StatusUnauthorized, "Token expired"},
		{"bad login", domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"role", domain.ErrInsufficientRole, http.StatusForbidden, "Insufficient permissions"},
		{"not found wrapped", fmt.Errorf("load: %w", domain.ErrSaleNotFound), http.StatusNotFound, "Sale not found"},
		{"no route", domain.ErrNoRouteMatch, http.StatusNotFound, "Route not found"},
		{"invalid", domain.Invalid("name is required"), http.StatusBadRequest, "name is required"},
		{"duplicate", domain.ErrEmailExists, http.StatusConflict, "Email already exists"},
		{"unavailable", domain.NewError(domain.KindDownstreamUnavailable, "Customer service unavailable", errors.New("dial")), http.StatusBadGateway, "Customer service unavailable"},
		{"timeout", domain.NewError(domain.KindDownstreamTimeout, "Gateway timeout", nil), http.StatusGatewayTimeout, "Gateway timeout"},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"wrapped bind error", domain.NewError(domain.KindInvalidPayload, "Invalid request payload",
			echo.NewHTTPError(http.StatusBadRequest, "Syntax error: offset=2, error=invalid character 'b'")),
			http.StatusBadRequest, "Invalid request payload"},
		{"unexpected", errors.New("mongo exploded"), http.StatusInternalServerError, "Internal Server Error"},
		{"internal kind", domain.NewError(domain.KindInternal, "secret detail", nil), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body["error"] != tc.wantMsg {
				t.Fatalf("expected message %q, got %q", tc.wantMsg, body["error"])
			}
		})
	}
}

func TestHTTPErrorHandler_SkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.NoContent(http.StatusNoContent)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrUserNotFound, c)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected committed 204 to stay, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}
