package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/salesdesk/sales-management/internal/api/metrics"
	"github.com/salesdesk/sales-management/internal/core/domain"
)

const maxHealthBody = 64 << 10

// Target is one downstream health endpoint.
type Target struct {
	Name string
	URL  string
}

// HealthTargets returns the liveness endpoint of every service.
func HealthTargets(services []Service) []Target {
	targets := make([]Target, 0, len(services))
	for _, s := range services {
		targets = append(targets, Target{Name: s.Name, URL: s.Target.JoinPath(s.HealthPath).String()})
	}
	return targets
}

// Prober checks downstream services concurrently.
type Prober struct {
	client  *http.Client
	timeout time.Duration
	log     zerolog.Logger
}

// NewProber builds a prober whose probes each get their own timeout.
func NewProber(timeout time.Duration, log zerolog.Logger) *Prober {
	return &Prober{client: &http.Client{}, timeout: timeout, log: log}
}

// Probe sends one GET per target, all at once, and waits for every outcome.
// The report is ok only if every target answered 2xx within the timeout.
// If any request cannot be built the report status is error with no details.
func (p *Prober) Probe(ctx context.Context, targets []Target) domain.HealthReport {
	reqs := make([]*http.Request, len(targets))
	for i, t := range targets {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL, nil)
		if err != nil {
			p.log.Error().Err(err).Str("service", t.Name).Msg("build health request")
			return domain.HealthReport{Status: domain.HealthError, Services: []domain.ServiceHealth{}}
		}
		req.Header.Set("Accept", "application/json")
		reqs[i] = req
	}

	results := make([]domain.ServiceHealth, len(targets))
	var wg sync.WaitGroup
	for i := range targets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.probeOne(targets[i].Name, reqs[i])
		}(i)
	}
	wg.Wait()

	status := domain.HealthOK
	for _, r := range results {
		if r.Status != domain.HealthOK {
			status = domain.HealthDegraded
			break
		}
	}
	return domain.HealthReport{Status: status, Services: results}
}

func (p *Prober) probeOne(name string, req *http.Request) domain.ServiceHealth {
	ctx, cancel := context.WithTimeout(req.Context(), p.timeout)
	defer cancel()

	start := time.Now()
	health := p.do(name, req.WithContext(ctx))
	metrics.HealthProbeDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	metrics.HealthProbeTotal.WithLabelValues(name, health.Status).Inc()

	if health.Status != domain.HealthOK {
		p.log.Warn().Str("service", name).Interface("details", health.Details).Msg("health probe failed")
	}
	return health
}

func (p *Prober) do(name string, req *http.Request) domain.ServiceHealth {
	resp, err := p.client.Do(req)
	if err != nil {
		reason := err.Error()
		if isTimeout(err) {
			reason = fmt.Sprintf("timeout after %s", p.timeout)
		}
		return domain.ServiceHealth{Name: name, Status: domain.HealthError, Details: reason}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxHealthBody))
	if err != nil {
		return domain.ServiceHealth{Name: name, Status: domain.HealthError, Details: "read body: " + err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.ServiceHealth{
			Name:    name,
			Status:  domain.HealthError,
			Details: fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}
	return domain.ServiceHealth{Name: name, Status: domain.HealthOK, Details: decodeDetails(body)}
}

// decodeDetails returns the JSON value of body, or its text when not JSON.
func decodeDetails(body []byte) any {
	var v any
	if err := json.Unmarshal(body, &v); err == nil {
		return v
	}
	return strings.TrimSpace(string(body))
}
