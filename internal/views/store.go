// Package views provides privacy-preserving, bot-filtered, per-visitor
// page view counting backed by a shared key-value store.
package views

import "context"

// Store is the key-value backend for view counting. All implementations
// must be safe for concurrent use; AddUnique and Increment must be atomic
// so the first-seen check and the counter never need external locking.
type Store interface {
	// AddUnique adds member to the set at key and reports whether it was
	// newly added.
	AddUnique(ctx context.Context, key, member string) (bool, error)

	// Increment adds one to the integer at key, creating it at zero first.
	Increment(ctx context.Context, key string) error

	// GetCount returns the integer at key, or 0 if the key does not exist.
	GetCount(ctx context.Context, key string) (uint64, error)

	// GetCounts returns the integers at keys in one round-trip, in input
	// order, with 0 for missing keys.
	GetCounts(ctx context.Context, keys []string) ([]uint64, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
