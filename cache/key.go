package cache

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Key hashes parts into a fixed-width cache key.
func Key(parts ...string) string {
	d := xxhash.New()
	for i, p := range parts {
		if i > 0 {
			_, _ = d.Write([]byte{0})
		}
		_, _ = d.WriteString(p)
	}
	return strconv.FormatUint(d.Sum64(), 16)
}
