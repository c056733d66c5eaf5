package delta

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

const (
	wordSampleCap = 10

	// nominalReuse is a fixed estimate of how much of the referenced
	// context a consumer can reuse. It is declared, not measured.
	nominalReuse = 0.8
)

// ChangeSummary is a coarse word-level description of what changed.
// Samples are capped; the counts are exact.
type ChangeSummary struct {
	AddedSample   []string `json:"added_sample"`
	RemovedSample []string `json:"removed_sample"`
	AddedCount    int      `json:"added_count"`
	RemovedCount  int      `json:"removed_count"`
}

// OpaquePayload tells the consumer to reuse previously-transmitted content
// by reference, with a summary of what drifted since.
type OpaquePayload struct {
	Instruction     string        `json:"instruction"`
	ContextID       string        `json:"context_id"`
	Changes         ChangeSummary `json:"changes"`
	ReusePercentage float64       `json:"reuse_percentage"`
}

func (e *Encoder) encodeOpaque(oldContent, newContent, contextID string) (OpaquePayload, bool) {
	if contextID == "" {
		contextID = uuid.NewString()
	}
	e.contexts.Put(contextID, oldContent, e.cfg.ContextTTL)

	added, removed := wordSetDiff(oldContent, newContent)
	payload := OpaquePayload{
		Instruction:     "Reuse the content previously sent under this context id, adjusted for the summarized changes.",
		ContextID:       contextID,
		Changes: ChangeSummary{
			AddedSample:   sample(added, wordSampleCap),
			RemovedSample: sample(removed, wordSampleCap),
			AddedCount:    len(added),
			RemovedCount:  len(removed),
		},
		ReusePercentage: nominalReuse,
	}
	return payload, len(added)+len(removed) > 0
}

// wordSetDiff returns the sorted words present only in new (added) and
// only in old (removed).
func wordSetDiff(oldContent, newContent string) (added, removed []string) {
	oldWords := wordSet(oldContent)
	newWords := wordSet(newContent)

	for w := range newWords {
		if _, ok := oldWords[w]; !ok {
			added = append(added, w)
		}
	}
	for w := range oldWords {
		if _, ok := newWords[w]; !ok {
			removed = append(removed, w)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}

func sample(words []string, limit int) []string {
	if len(words) <= limit {
		return words
	}
	return words[:limit]
}
