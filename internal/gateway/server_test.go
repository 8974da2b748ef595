package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesdesk/sales-management/internal/core/domain"
	"github.com/salesdesk/sales-management/internal/core/service"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   string
	Header http.Header
}

type downstream struct {
	srv   *httptest.Server
	calls atomic.Int32
	last  atomic.Pointer[recordedRequest]
}

func newDownstream(t *testing.T, name string) *downstream {
	t.Helper()
	d := &downstream{}
	d.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		d.last.Store(&recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
			Body:   string(body),
			Header: r.Header.Clone(),
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"service":"` + name + `"}`))
	}))
	t.Cleanup(d.srv.Close)
	return d
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

type gatewayFixture struct {
	e         *echo.Echo
	tokens    *service.TokenService
	users     *downstream
	customers *downstream
	sales     *downstream
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()
	f := &gatewayFixture{
		tokens:    service.NewTokenService("gateway-secret", time.Hour),
		users:     newDownstream(t, "user-service"),
		customers: newDownstream(t, "customer-service"),
		sales:     newDownstream(t, "sales-service"),
	}

	services := []Service{
		{Name: "user-service", Prefix: "/api/users", Target: mustURL(t, f.users.srv.URL), HealthPath: "/api/users/health"},
		{Name: "customer-service", Prefix: "/api/customers", Target: mustURL(t, f.customers.srv.URL), HealthPath: "/api/customers/health"},
		{Name: "sales-service", Prefix: "/api/sales", Target: mustURL(t, f.sales.srv.URL), HealthPath: "/api/sales/health"},
	}
	table, err := BuildRouteTable(services, []string{"/api/users/login", "/api/users/register"})
	require.NoError(t, err)

	f.e = NewRouter(Options{
		Routes:        table,
		Verifier:      f.tokens,
		HealthTargets: HealthTargets(services),
		ProxyTimeout:  time.Second,
		HealthTimeout: time.Second,
		Logger:        zerolog.Nop(),
	})
	return f
}

func (f *gatewayFixture) token(t *testing.T) string {
	t.Helper()
	tok, err := f.tokens.Issue(&domain.User{ID: "u-1", Email: "rep@example.com", Role: domain.RoleSalesRep})
	require.NoError(t, err)
	return tok
}

func (f *gatewayFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func TestGateway_ForwardsToMatchingService(t *testing.T) {
	f := newGatewayFixture(t)
	header := "Bearer " + f.token(t)

	req := httptest.NewRequest(http.MethodPut, "/api/users/u-1?x=1&y=2", strings.NewReader(`{"firstName":"A"}`))
	req.Header.Set("Authorization", header)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Gateway-Internal", "secret")
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"service":"user-service"}`, rec.Body.String())

	assert.EqualValues(t, 1, f.users.calls.Load())
	assert.EqualValues(t, 0, f.customers.calls.Load())
	assert.EqualValues(t, 0, f.sales.calls.Load())

	got := f.users.last.Load()
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/api/users/u-1", got.Path)
	assert.Equal(t, "x=1&y=2", got.Query)
	assert.Equal(t, header, got.Auth, "Authorization must be forwarded byte-identical")
	assert.Equal(t, `{"firstName":"A"}`, got.Body)
	assert.Empty(t, got.Header.Get("X-Gateway-Internal"))
}

func TestGateway_PublicRoutesSkipAuth(t *testing.T) {
	f := newGatewayFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, f.users.calls.Load())
	assert.Equal(t, "/api/users/login", f.users.last.Load().Path)
}

func TestGateway_RejectsWithoutCallingDownstream(t *testing.T) {
	f := newGatewayFixture(t)

	past := time.Now().Add(-2 * time.Hour)
	expiredTok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "u-1",
		"sub":    "u-1",
		"role":   domain.RoleAdmin,
		"iat":    past.Unix(),
		"exp":    past.Add(time.Hour).Unix(),
	}).SignedString([]byte("gateway-secret"))
	require.NoError(t, err)

	cases := []struct {
		name    string
		auth    string
		wantMsg string
	}{
		{"missing", "", "Authentication token required"},
		{"garbage", "Bearer nope", "Invalid token"},
		{"expired", "Bearer " + expiredTok, "Token expired"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}
			rec := f.do(req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"`+tc.wantMsg+`"}`, rec.Body.String())
		})
	}
	assert.EqualValues(t, 0, f.customers.calls.Load())
}

func TestGateway_UnknownRouteIs404BeforeAuth(t *testing.T) {
	f := newGatewayFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/unknown", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Route not found"}`, rec.Body.String())
}

func TestGateway_DownstreamFailures(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(slow.Close)
	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()

	tokens := service.NewTokenService("gateway-secret", time.Hour)
	table := NewRouteTable(
		Route{Name: "sales-service", Prefix: "/api/sales", Target: mustURL(t, slow.URL)},
		Route{Name: "customer-service", Prefix: "/api/customers", Target: mustURL(t, downURL)},
	)
	e := NewRouter(Options{Routes: table, Verifier: tokens, ProxyTimeout: 100 * time.Millisecond, HealthTimeout: time.Second, Logger: zerolog.Nop()})
	tok, err := tokens.Issue(&domain.User{ID: "u-1", Role: domain.RoleAdmin})
	require.NoError(t, err)

	cases := []struct {
		path string
		want int
	}{
		{"/api/sales", http.StatusGatewayTimeout},
		{"/api/customers", http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			req.Header.Set("Authorization", "Bearer "+tok)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestGateway_Health(t *testing.T) {
	f := newGatewayFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status   string                 `json:"status"`
		Service  string                 `json:"service"`
		Services []domain.ServiceHealth `json:"services"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.HealthOK, body.Status)
	assert.Equal(t, "api-gateway", body.Service)
	assert.Len(t, body.Services, 3)
	assert.Equal(t, "/api/users/health", f.users.last.Load().Path)
}

func TestGateway_HealthDegraded(t *testing.T) {
	f := newGatewayFixture(t)
	f.sales.srv.Close()

	rec := f.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.HealthDegraded, body.Status)
}
