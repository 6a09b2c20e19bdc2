// Package cache provides the process-local cache, a singleflight loader and
// a caching AI completer.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/seomate"
)

var _ seomate.Cache = (*Memory)(nil)

type entry struct {
	value     []byte
	createdAt time.Time
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Memory is an in-process cache. Entries with a non-positive TTL never
// expire.
type Memory struct {
	mu     sync.Mutex
	groups map[string]map[string]entry

	// Now returns the current time. Tests override it.
	Now func() time.Time
}

// NewMemory creates an empty Memory cache.
func NewMemory() *Memory {
	return &Memory{
		groups: make(map[string]map[string]entry),
		Now:    time.Now,
	}
}

// Get returns the value stored under key in group.
func (m *Memory) Get(_ context.Context, group, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.groups[group][key]
	if !ok {
		return nil, false, nil
	}
	if e.expired(m.Now()) {
		delete(m.groups[group], key)
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

// Set stores value under key in group.
func (m *Memory) Set(_ context.Context, group, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.Now()
	e := entry{value: append([]byte(nil), value...), createdAt: now}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	g, ok := m.groups[group]
	if !ok {
		g = make(map[string]entry)
		m.groups[group] = g
	}
	g[key] = e
	return nil
}

// Delete removes key from group.
func (m *Memory) Delete(_ context.Context, group, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.groups[group], key)
	return nil
}

// DeleteGroup removes every entry in group.
func (m *Memory) DeleteGroup(_ context.Context, group string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.groups, group)
	return nil
}
