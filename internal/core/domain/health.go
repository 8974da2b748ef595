package domain

const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
	HealthError    = "error"
)

// ServiceHealth is the outcome of probing one downstream service.
type ServiceHealth struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Details any    `json:"details,omitempty"`
}

// HealthReport aggregates the probes of one health check.
type HealthReport struct {
	Status   string          `json:"status"`
	Services []ServiceHealth `json:"services"`
}
