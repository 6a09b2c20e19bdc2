package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/seomate"
)

var _ seomate.Cache = (*Cache)(nil)

// Cache implements seomate.Cache using SQLite. Expired rows are removed
// when read.
type Cache struct {
	db *DB

	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

// NewCache creates a new Cache.
func NewCache(db *DB) *Cache {
	return &Cache{db: db, Now: time.Now}
}

// Get returns the value stored under key in group.
func (c *Cache) Get(ctx context.Context, group, key string) ([]byte, bool, error) {
	var (
		value     []byte
		expiresAt sql.NullString
	)
	err := c.db.QueryRowContext(ctx, `
		SELECT value, expires_at FROM cache_entries WHERE grp = ? AND key = ?
	`, group, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	expiry, err := parseNullTime(expiresAt, "expires_at")
	if err != nil {
		return nil, false, err
	}
	if expiry != nil && !c.now().Before(*expiry) {
		if err := c.Delete(ctx, group, key); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}
	return value, true, nil
}

// Set stores value under key in group. A non-positive ttl never expires.
func (c *Cache) Set(ctx context.Context, group, key string, value []byte, ttl time.Duration) error {
	now := c.now()
	var expiresAt sql.NullString
	if ttl > 0 {
		expiresAt = sql.NullString{String: formatTime(now.Add(ttl)), Valid: true}
	}
	if value == nil {
		value = []byte{}
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO cache_entries (grp, key, value, created_at, expires_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (grp, key) DO UPDATE SET
			value = excluded.value,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`, group, key, value, formatTime(now), expiresAt)
	return err
}

// Delete removes one entry.
func (c *Cache) Delete(ctx context.Context, group, key string) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE grp = ? AND key = ?", group, key)
	return err
}

// DeleteGroup removes every entry in group.
func (c *Cache) DeleteGroup(ctx context.Context, group string) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE grp = ?", group)
	return err
}

func (c *Cache) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
