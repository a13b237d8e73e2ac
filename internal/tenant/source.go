package tenant

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a tenant id is unknown to the source.
var ErrNotFound = errors.New("tenant not found")

// Source supplies tenant summaries. Every workspace view depends on this
// interface, never on a concrete backend, so tests can use a stub.
//
// Results for a superseded query may still arrive; callers decide whether
// to apply them.
type Source interface {
	// Fetch returns the tenants matching q. Implementations may treat q as a
	// hint and return a superset.
	Fetch(ctx context.Context, q Query) ([]Tenant, error)

	// Get returns a single tenant by id.
	Get(ctx context.Context, id string) (Tenant, error)
}
