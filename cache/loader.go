package cache

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/seomate"
	"golang.org/x/sync/singleflight"
)

// ComputeFunc produces a value on a cache miss. Returning store=false hands
// the value to the caller without caching it.
type ComputeFunc func(ctx context.Context) (value []byte, store bool, err error)

// Loader reads through a cache, computing and storing missing entries.
// Concurrent misses for the same key share one computation.
type Loader struct {
	Cache  seomate.Cache
	Logger *slog.Logger

	flight singleflight.Group
}

// NewLoader creates a Loader over c.
func NewLoader(c seomate.Cache) *Loader {
	return &Loader{
		Cache:  c,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Remember returns the cached value for key in group, or computes it.
// Cache read and write failures are logged and treated as misses.
func (l *Loader) Remember(ctx context.Context, group, key string, ttl time.Duration, compute ComputeFunc) ([]byte, error) {
	if v, ok, err := l.Cache.Get(ctx, group, key); err != nil {
		l.logger().Warn("cache read failed", "group", group, "error", err)
	} else if ok {
		l.logger().Debug("cache hit", "group", group, "key", key)
		return v, nil
	}

	v, err, _ := l.flight.Do(group+"\x00"+key, func() (any, error) {
		value, store, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if store {
			if err := l.Cache.Set(ctx, group, key, value, ttl); err != nil {
				l.logger().Warn("cache write failed", "group", group, "error", err)
			}
		}
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l.Logger
}
