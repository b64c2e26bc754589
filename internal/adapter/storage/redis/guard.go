package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// MutationGuard implements ports.MutationGuard using Redis SET NX, so the
// one-in-flight-per-customer rule holds across service instances. The TTL
// bounds how long a crashed holder can block a customer's ledger.
type MutationGuard struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewMutationGuard creates a new Redis-backed mutation guard.
func NewMutationGuard(client *goredis.Client, ttl time.Duration) *MutationGuard {
	return &MutationGuard{
		client: client,
		prefix: "creditguard:",
		ttl:    ttl,
	}
}

// Acquire atomically marks the customer's ledger as busy. Returns false when
// another mutation already holds the guard; it never blocks.
func (g *MutationGuard) Acquire(ctx context.Context, customerID uuid.UUID) (bool, error) {
	key := g.prefix + customerID.String()
	result, err := g.client.SetArgs(ctx, key, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  g.ttl,
	}).Result()
	if err != nil {
		if err == goredis.Nil {
			// Key already exists: a mutation is in flight
			return false, nil
		}
		return false, fmt.Errorf("redis guard acquire: %w", err)
	}
	return result == "OK", nil
}

// Release clears the guard. Releasing an unheld guard is a no-op.
func (g *MutationGuard) Release(ctx context.Context, customerID uuid.UUID) error {
	key := g.prefix + customerID.String()
	if err := g.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis guard release: %w", err)
	}
	return nil
}
