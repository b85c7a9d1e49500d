package health

import "context"

// StorePinger checks preference store connectivity.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// Checker probes one remote dependency.
type Checker interface {
	HealthCheck(ctx context.Context) error
}
