package cache

import "github.com/BaSui01/tokensave/types"

// KeyStrategy derives a cache key from a request.
type KeyStrategy interface {
	// Key serializes the ordered message list and model tier into a
	// deterministic cache key. Identical inputs must yield the identical
	// key across processes and restarts.
	Key(messages []types.Message, tier string) string

	// Name returns the strategy name for logs and debugging.
	Name() string
}
