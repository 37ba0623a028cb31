// Package resilience reports on the health of the analysis service and
// the local session database.
package resilience

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"growtheory/internal/models"
)

// HealthStatus represents the health status of a component.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "HEALTHY"
	HealthStatusDegraded  HealthStatus = "DEGRADED"
	HealthStatusUnhealthy HealthStatus = "UNHEALTHY"
	HealthStatusUnknown   HealthStatus = "UNKNOWN"
)

// Latency above these thresholds marks a component degraded.
const (
	DefaultServiceSlowThreshold  = 2 * time.Second
	DefaultDatabaseSlowThreshold = 100 * time.Millisecond
)

// ComponentHealth represents the health of a single component.
type ComponentHealth struct {
	Name      string                 `json:"name"`
	Status    HealthStatus           `json:"status"`
	Message   string                 `json:"message"`
	LastCheck time.Time              `json:"last_check"`
	Latency   time.Duration          `json:"latency"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// HealthCheck represents a health check function.
type HealthCheck func(ctx context.Context) ComponentHealth

// StatusChecker is anything that can query the service status endpoint.
type StatusChecker interface {
	Status(ctx context.Context) (*models.StatusPayload, error)
}

// ServiceHealthCheck creates a health check for the analysis service.
// A reachable service whose payload does not report itself healthy is
// degraded rather than unhealthy.
func ServiceHealthCheck(name string, checker StatusChecker, slow time.Duration) HealthCheck {
	return func(ctx context.Context) ComponentHealth {
		health := ComponentHealth{
			Name:      name,
			LastCheck: time.Now(),
			Details:   make(map[string]interface{}),
		}

		start := time.Now()
		payload, err := checker.Status(ctx)
		health.Latency = time.Since(start)

		if err != nil {
			health.Status = HealthStatusUnhealthy
			health.Message = fmt.Sprintf("Service check failed: %v", err)
			return health
		}

		for k, v := range payload.Fields {
			health.Details[k] = v
		}

		if !payload.IsHealthy() {
			health.Status = HealthStatusDegraded
			health.Message = fmt.Sprintf("Service reports status %q", payload.Status)
			return health
		}

		if health.Latency > slow {
			health.Status = HealthStatusDegraded
			health.Message = fmt.Sprintf("Service slow: %v", health.Latency.Round(time.Millisecond))
			return health
		}

		health.Status = HealthStatusHealthy
		health.Message = fmt.Sprintf("Service healthy: %v", health.Latency.Round(time.Millisecond))
		return health
	}
}

// DatabaseHealthCheck creates a health check for the session database.
func DatabaseHealthCheck(ping func(ctx context.Context) error, slow time.Duration) HealthCheck {
	return func(ctx context.Context) ComponentHealth {
		health := ComponentHealth{
			Name:      "session_store",
			LastCheck: time.Now(),
		}

		start := time.Now()
		err := ping(ctx)
		health.Latency = time.Since(start)

		if err != nil {
			health.Status = HealthStatusUnhealthy
			health.Message = fmt.Sprintf("Database ping failed: %v", err)
			return health
		}

		if health.Latency > slow {
			health.Status = HealthStatusDegraded
			health.Message = fmt.Sprintf("Database slow: %v", health.Latency)
			return health
		}

		health.Status = HealthStatusHealthy
		health.Message = "Database healthy"
		return health
	}
}

// SystemHealth is the combined result of several checks.
type SystemHealth struct {
	Status     HealthStatus      `json:"status"`
	CheckedAt  time.Time         `json:"checked_at"`
	Components []ComponentHealth `json:"components"`
}

// IsHealthy returns true if every component is healthy.
func (h SystemHealth) IsHealthy() bool {
	return h.Status == HealthStatusHealthy
}

// CheckAll runs checks concurrently and combines them. The overall status
// is the worst component status. A panicking check counts as unhealthy.
func CheckAll(ctx context.Context, checks map[string]HealthCheck) SystemHealth {
	var wg sync.WaitGroup
	results := make(chan ComponentHealth, len(checks))

	for name, check := range checks {
		wg.Add(1)
		go func(n string, c HealthCheck) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results <- ComponentHealth{
						Name:      n,
						Status:    HealthStatusUnhealthy,
						Message:   fmt.Sprintf("Panic recovered: %v", r),
						LastCheck: time.Now(),
					}
				}
			}()

			health := c(ctx)
			health.Name = n
			results <- health
		}(name, check)
	}

	wg.Wait()
	close(results)

	system := SystemHealth{Status: HealthStatusHealthy, CheckedAt: time.Now()}
	if len(checks) == 0 {
		system.Status = HealthStatusUnknown
	}

	hasUnhealthy, hasDegraded := false, false
	for health := range results {
		system.Components = append(system.Components, health)
		switch health.Status {
		case HealthStatusUnhealthy:
			hasUnhealthy = true
		case HealthStatusDegraded:
			hasDegraded = true
		}
	}
	sort.Slice(system.Components, func(i, j int) bool {
		return system.Components[i].Name < system.Components[j].Name
	})

	if hasUnhealthy {
		system.Status = HealthStatusUnhealthy
	} else if hasDegraded {
		system.Status = HealthStatusDegraded
	}
	return system
}
