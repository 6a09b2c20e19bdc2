package seomate

import "context"

// OptionService is the host's persistent key/value option store.
type OptionService interface {
	// Option returns the stored value for key, or def when unset.
	Option(ctx context.Context, key, def string) (string, error)

	// SetOption stores value under key.
	SetOption(ctx context.Context, key, value string) error
}
