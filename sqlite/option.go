package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fwojciec/seomate"
)

var _ seomate.OptionService = (*OptionService)(nil)

// OptionService implements seomate.OptionService using SQLite.
type OptionService struct {
	db *DB
}

// NewOptionService creates a new OptionService.
func NewOptionService(db *DB) *OptionService {
	return &OptionService{db: db}
}

// Option returns the value stored under key, or def when unset.
func (s *OptionService) Option(ctx context.Context, key, def string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM options WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetOption stores value under key.
func (s *OptionService) SetOption(ctx context.Context, key, value string) error {
	if key == "" {
		return seomate.Errorf(seomate.EINVALID, "option key required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO options (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
