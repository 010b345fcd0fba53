package libris

import (
	"context"
	"fmt"
	"sort"
	"strings"

	healthuc "github.com/kailas-cloud/libris/internal/usecase/health"
)

// Aggregated health states.
const (
	HealthOK       = string(healthuc.Healthy)
	HealthDegraded = string(healthuc.Degraded)
	HealthError    = string(healthuc.Unhealthy)
)

// HealthStatus is the aggregated health of the store, the book index and the embedder.
type HealthStatus struct {
	Status string            // HealthOK, HealthDegraded or HealthError
	Checks map[string]string // component → "ok"/"error"/"missing"/"disabled"
}

// Ready reports whether searches can be served. A degraded embedder still allows lexical search.
func (h HealthStatus) Ready() bool {
	return h.Status == HealthOK || h.Status == HealthDegraded
}

// Err returns nil when ready, otherwise an error naming the failing components.
func (h HealthStatus) Err() error {
	if h.Ready() {
		return nil
	}
	var failed []string
	for name, state := range h.Checks {
		if state != string(healthuc.CheckOK) && state != string(healthuc.CheckDisabled) {
			failed = append(failed, name+"="+state)
		}
	}
	sort.Strings(failed)
	return fmt.Errorf("libris not ready: %s: %w", strings.Join(failed, ", "), ErrStoreUnavailable)
}

// Health checks the store, the book index and the embedder.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
