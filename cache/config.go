package cache

import "time"

// RedisConfig configures the networked backend.
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`

	// OpTimeout bounds every individual backend call so an unreachable
	// server degrades to a miss instead of stalling the caller.
	OpTimeout time.Duration `yaml:"op_timeout" json:"op_timeout"`
}

// Config configures the tiered cache. It is read once at construction and
// never re-read per call.
type Config struct {
	// Per-level enable flags. Level 1 is the exact-match backend chain;
	// levels 2 and 3 are the semantic and template extension points.
	EnableExact    bool `yaml:"enable_exact" json:"enable_exact"`
	EnableSemantic bool `yaml:"enable_semantic" json:"enable_semantic"`
	EnableTemplate bool `yaml:"enable_template" json:"enable_template"`

	// Per-level TTL in minutes.
	ExactTTLMinutes    int `yaml:"exact_ttl_minutes" json:"exact_ttl_minutes"`
	SemanticTTLMinutes int `yaml:"semantic_ttl_minutes" json:"semantic_ttl_minutes"`
	TemplateTTLMinutes int `yaml:"template_ttl_minutes" json:"template_ttl_minutes"`

	// Backends is the ordered list of backend names tried at startup.
	// Construction falls back along this list; it never probes for
	// optionally-installed anything.
	Backends []string `yaml:"backends" json:"backends"`

	Redis RedisConfig `yaml:"redis" json:"redis"`

	// SQLitePath is the file path for the durable local store.
	SQLitePath string `yaml:"sqlite_path" json:"sqlite_path"`

	// MemoryMaxEntries bounds the in-process backend.
	MemoryMaxEntries int `yaml:"memory_max_entries" json:"memory_max_entries"`
}

// DefaultConfig returns sensible defaults: all levels enabled, a one hour
// exact TTL, and the full redis -> sqlite -> memory fallback chain.
func DefaultConfig() Config {
	return Config{
		EnableExact:        true,
		EnableSemantic:     true,
		EnableTemplate:     true,
		ExactTTLMinutes:    60,
		SemanticTTLMinutes: 60,
		TemplateTTLMinutes: 120,
		Backends:           []string{BackendRedis, BackendSQLite, BackendMemory},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			OpTimeout: 2 * time.Second,
		},
		SQLitePath:       "tokensave_cache.db",
		MemoryMaxEntries: 1000,
	}
}

// ExactTTL returns the level 1 TTL as a duration.
func (c Config) ExactTTL() time.Duration {
	return time.Duration(c.ExactTTLMinutes) * time.Minute
}

// SemanticTTL returns the level 2 TTL as a duration.
func (c Config) SemanticTTL() time.Duration {
	return time.Duration(c.SemanticTTLMinutes) * time.Minute
}

// TemplateTTL returns the level 3 TTL as a duration.
func (c Config) TemplateTTL() time.Duration {
	return time.Duration(c.TemplateTTLMinutes) * time.Minute
}
