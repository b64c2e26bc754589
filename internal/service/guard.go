package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryGuard implements ports.MutationGuard with a process-local map of
// customer id to an in-flight marker. It serves single-process deployments
// and tests; multi-instance deployments use the redis-backed guard so the
// critical section spans processes.
type InMemoryGuard struct {
	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

// NewInMemoryGuard creates an empty guard.
func NewInMemoryGuard() *InMemoryGuard {
	return &InMemoryGuard{inFlight: make(map[uuid.UUID]struct{})}
}

// Acquire marks customerID as having an in-flight mutation. Returns false if
// one is already in flight; it never blocks.
func (g *InMemoryGuard) Acquire(_ context.Context, customerID uuid.UUID) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[customerID]; busy {
		return false, nil
	}
	g.inFlight[customerID] = struct{}{}
	return true, nil
}

// Release clears the in-flight marker.
func (g *InMemoryGuard) Release(_ context.Context, customerID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, customerID)
	return nil
}
