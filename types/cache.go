package types

import "time"

// CacheLevel identifies which lookup strategy produced a cache result.
type CacheLevel string

const (
	// LevelExact is an identical-request hit (level 1).
	LevelExact CacheLevel = "exact"
	// LevelSemantic is a semantically-similar-request hit (level 2).
	LevelSemantic CacheLevel = "semantic"
	// LevelTemplate is a structurally-similar-pattern hit (level 3).
	LevelTemplate CacheLevel = "template"
	// LevelMiss means no level produced a hit.
	LevelMiss CacheLevel = "miss"
)

// CacheResult is the outcome of a tiered cache lookup.
//
// When Hit is false, Level is LevelMiss, Content is empty and the saved
// counters are zero. Similarity is 1.0 only for exact-match hits.
type CacheResult struct {
	Hit         bool       `json:"hit"`
	Level       CacheLevel `json:"level"`
	Content     string     `json:"content,omitempty"`
	TokensSaved int        `json:"tokens_saved"`
	CostSaved   float64    `json:"cost_saved"`
	Similarity  float64    `json:"similarity"`
}

// Miss returns the canonical miss result.
func Miss() CacheResult {
	return CacheResult{Hit: false, Level: LevelMiss}
}

// CacheEntry is the flat record a backend stores for one cached response.
// CreatedAt is epoch seconds so the serialized form is stable across
// backends and processes.
type CacheEntry struct {
	Content   string  `json:"content"`
	Tokens    int     `json:"tokens"`
	Cost      float64 `json:"cost"`
	CreatedAt int64   `json:"timestamp"`
	Tier      string  `json:"tier"`
	HitCount  int     `json:"hit_count,omitempty"`
}

// Age returns how long ago the entry was created.
func (e *CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(time.Unix(e.CreatedAt, 0))
}

// Stats is a snapshot of tiered cache counters. Counters only grow until an
// explicit Clear resets them.
type Stats struct {
	Level1Hits       int64   `json:"level1_hits"`
	Level2Hits       int64   `json:"level2_hits"`
	Level3Hits       int64   `json:"level3_hits"`
	Misses           int64   `json:"misses"`
	TotalTokensSaved int64   `json:"total_tokens_saved"`
	TotalCostSaved   float64 `json:"total_cost_saved"`
	TotalRequests    int64   `json:"total_requests"`
	HitRate          float64 `json:"hit_rate"`
}
