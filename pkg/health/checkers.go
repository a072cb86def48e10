package health

import (
	"context"
	"time"
)

// Checkable is implemented by components that can verify their own connectivity,
// such as the MongoDB adapter.
type Checkable interface {
	HealthCheck(ctx context.Context) error
}

// AdapterChecker reports the health of a Checkable within a timeout
type AdapterChecker struct {
	name    string
	adapter Checkable
	timeout time.Duration
}

// NewAdapterChecker creates a health checker for an adapter. A zero timeout means 5s.
func NewAdapterChecker(name string, adapter Checkable, timeout time.Duration) *AdapterChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AdapterChecker{
		name:    name,
		adapter: adapter,
		timeout: timeout,
	}
}

// NewDatabaseChecker creates a health checker for the database adapter.
func NewDatabaseChecker(db Checkable) *AdapterChecker {
	return NewAdapterChecker("mongodb", db, 5*time.Second)
}

func (c *AdapterChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.adapter.HealthCheck(checkCtx)
	duration := time.Since(start)

	if err != nil {
		return CheckResult{
			Name:      c.name,
			Status:    StatusUnhealthy,
			Error:     err.Error(),
			Timestamp: time.Now(),
			Duration:  duration,
		}
	}

	return CheckResult{
		Name:      c.name,
		Status:    StatusHealthy,
		Message:   "OK",
		Timestamp: time.Now(),
		Duration:  duration,
	}
}

func (c *AdapterChecker) Name() string {
	return c.name
}

// PingChecker always reports healthy. It backs the liveness endpoint.
type PingChecker struct {
	name string
}

func NewPingChecker(name string) *PingChecker {
	return &PingChecker{name: name}
}

func (c *PingChecker) Check(ctx context.Context) CheckResult {
	return CheckResult{
		Name:      c.name,
		Status:    StatusHealthy,
		Message:   "Service is alive",
		Timestamp: time.Now(),
	}
}

func (c *PingChecker) Name() string {
	return c.name
}
