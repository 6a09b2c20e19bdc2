package seomate

import (
	"context"
	"time"
)

// Cache groups used by the pipeline.
const (
	CacheGroupAI  = "ai"
	CacheGroupSEO = "seo"
)

// Cache is a namespaced key/value store with per-entry expiry.
type Cache interface {
	// Get returns the payload for key in group. Expired entries are reported
	// as missing.
	Get(ctx context.Context, group, key string) ([]byte, bool, error)

	// Set stores value under key in group for ttl.
	Set(ctx context.Context, group, key string, value []byte, ttl time.Duration) error

	// Delete removes a single entry.
	Delete(ctx context.Context, group, key string) error

	// DeleteGroup removes every entry in group.
	DeleteGroup(ctx context.Context, group string) error
}
