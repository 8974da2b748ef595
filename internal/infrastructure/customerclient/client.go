// Package customerclient resolves customers through the customer service HTTP API.
package customerclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/salesdesk/sales-management/internal/core/domain"
)

const defaultTimeout = 5 * time.Second

// Client implements ports.CustomerDirectory. The caller's bearer token, taken
// from the request context, is forwarded so the customer service applies its
// own authorisation.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Lookup fetches a customer summary.
//
//	404            → domain.ErrCustomerNotFound
//	timeout        → KindDownstreamTimeout
//	other failures → KindDownstreamUnavailable
func (c *Client) Lookup(ctx context.Context, customerID string) (*domain.CustomerSummary, error) {
	endpoint := c.baseURL + "/api/customers/" + url.PathEscape(customerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build customer request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if claims, ok := domain.ClaimsFromContext(ctx); ok && claims.Raw != "" {
		req.Header.Set("Authorization", "Bearer "+claims.Raw)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, domain.NewError(domain.KindDownstreamTimeout, "Customer service timed out", err)
		}
		return nil, domain.NewError(domain.KindDownstreamUnavailable, "Customer service unavailable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrCustomerNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		cause := fmt.Errorf("status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
		return nil, domain.NewError(domain.KindDownstreamUnavailable, "Customer service unavailable", cause)
	}

	var summary domain.CustomerSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, domain.NewError(domain.KindDownstreamUnavailable, "Customer service unavailable", fmt.Errorf("decode customer: %w", err))
	}
	return &summary, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
