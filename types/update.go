package types

// UpdateMethod identifies the encoding a delta payload uses.
type UpdateMethod string

const (
	MethodFull            UpdateMethod = "full"
	MethodLineDiff        UpdateMethod = "line_diff"
	MethodStructuralPatch UpdateMethod = "structural_patch"
	MethodChunkDiff       UpdateMethod = "chunk_diff"
	MethodContextReuse    UpdateMethod = "context_reuse"
)

// ContentClass is the closed set of content kinds the delta encoder knows
// how to diff. Adding a class means adding a strategy, not a string branch.
type ContentClass string

const (
	// ClassCode is line-oriented source text, diffed as a unified diff.
	ClassCode ContentClass = "code"
	// ClassStructuredData is JSON-parseable nested data, diffed as a
	// path-addressed patch sequence.
	ClassStructuredData ContentClass = "structured"
	// ClassProse is natural-language text, diffed by paragraph chunks.
	ClassProse ContentClass = "prose"
	// ClassOpaque is anything else, summarized at word level with a
	// context reference for later reuse.
	ClassOpaque ContentClass = "opaque"
)

// UpdateResult describes the encoding chosen for a content update and the
// estimated token economics of sending it instead of the full content.
//
// TokenSavings is max(0, 1 - UpdatedTokens/OriginalTokens), never negative.
type UpdateResult struct {
	Method         UpdateMethod `json:"method"`
	Content        any          `json:"content"`
	TokenSavings   float64      `json:"token_savings"`
	OriginalTokens int          `json:"original_tokens"`
	UpdatedTokens  int          `json:"updated_tokens"`
}
