package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/salesdesk/sales-management/internal/core/domain"
)

// newTestContext builds an echo context with the validator registered and,
// when claims is non-nil, the claims attached as the Auth middleware would.
func newTestContext(method, target string, body io.Reader, claims *domain.Claims) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if claims != nil {
		req = req.WithContext(domain.ContextWithClaims(context.Background(), claims))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid json: %v (%s)", err, rec.Body.String())
	}
}

func expectKind(t *testing.T, err error, want domain.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := domain.KindOf(err); got != want {
		t.Fatalf("expected kind %s, got %s (%v)", want, got, err)
	}
}
