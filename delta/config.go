package delta

import "time"

// Config configures the delta encoder. Read once at construction.
type Config struct {
	// ChangeThreshold is the change ratio (1 - similarity) above which a
	// full resend is cheaper than describing the delta.
	ChangeThreshold float64 `yaml:"change_threshold" json:"change_threshold"`

	// MaxChunkSize bounds prose chunks in characters.
	MaxChunkSize int `yaml:"max_chunk_size" json:"max_chunk_size"`

	// ContextMaxEntries bounds the context-reference store.
	ContextMaxEntries int `yaml:"context_max_entries" json:"context_max_entries"`

	// ContextTTL expires unused context references.
	ContextTTL time.Duration `yaml:"context_ttl" json:"context_ttl"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChangeThreshold:   0.3,
		MaxChunkSize:      500,
		ContextMaxEntries: 256,
		ContextTTL:        30 * time.Minute,
	}
}
