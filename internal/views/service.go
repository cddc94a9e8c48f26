package views

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
)

// fingerprintSalt is mixed into visitor IP hashes to prevent rainbow
// table lookups. A fixed embedded constant, not a security boundary.
const fingerprintSalt = "nebula-views-salt-2024"

// fingerprintBytes is the truncated digest length: 16 bytes (32 hex
// characters) is enough for practical uniqueness while bounding storage.
const fingerprintBytes = 16

// ContentType namespaces view counters per kind of content.
type ContentType string

// Content types with tracked views.
const (
	TypePost    ContentType = "post"
	TypeProject ContentType = "project"
)

// Service records unique page views and serves view counts. Visitors are
// identified by a salted one-way hash of their IP, deduplicated through
// the store's atomic set-add, so the same visitor increments a counter at
// most once for the lifetime of the store.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a views service on top of the given store.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// RecordView records a page view and reports whether it incremented the
// counter. Bot traffic (including requests without a user agent) and
// requests without a resolvable IP are ignored. Safe to race against
// itself for the same slug: the store's set-add decides newness atomically.
func (s *Service) RecordView(ctx context.Context, ct ContentType, slug, ip, userAgent string) (bool, error) {
	if IsBot(userAgent) {
		return false, nil
	}
	if ip == "" {
		return false, nil
	}

	added, err := s.store.AddUnique(ctx, visitorsKey(ct, slug), Fingerprint(ip))
	if err != nil {
		return false, fmt.Errorf("adding visitor: %w", err)
	}
	if !added {
		return false, nil
	}

	if err := s.store.Increment(ctx, countKey(ct, slug)); err != nil {
		return false, fmt.Errorf("incrementing count: %w", err)
	}
	return true, nil
}

// Count returns the view count for one content item, 0 when none exists.
func (s *Service) Count(ctx context.Context, ct ContentType, slug string) (uint64, error) {
	return s.store.GetCount(ctx, countKey(ct, slug))
}

// Counts returns view counts for several slugs in one store round-trip,
// in input order, with 0 for unknown slugs. An empty input returns an
// empty result without touching the store.
func (s *Service) Counts(ctx context.Context, ct ContentType, slugs []string) ([]uint64, error) {
	if len(slugs) == 0 {
		return []uint64{}, nil
	}

	keys := make([]string, len(slugs))
	for i, slug := range slugs {
		keys[i] = countKey(ct, slug)
	}
	return s.store.GetCounts(ctx, keys)
}

// Ping reports whether the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Fingerprint derives the stored visitor identifier from a raw client IP:
// a salted SHA-256 digest truncated to 16 bytes, hex encoded. Raw IPs are
// never written to the store.
func Fingerprint(ip string) string {
	h := sha256.New()
	h.Write([]byte(ip))
	h.Write([]byte(fingerprintSalt))
	return hex.EncodeToString(h.Sum(nil)[:fingerprintBytes])
}

func visitorsKey(ct ContentType, slug string) string {
	return fmt.Sprintf("views:%s:%s:visitors", ct, slug)
}

func countKey(ct ContentType, slug string) string {
	return fmt.Sprintf("views:%s:%s:count", ct, slug)
}
