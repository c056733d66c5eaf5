// Package tokenizer provides token counting for cache savings accounting
// and delta payload sizing. The default Estimate tokenizer uses a rough
// 4-chars-per-token heuristic; a tiktoken-backed tokenizer is available
// when model-accurate counts are worth the encoding tables.
package tokenizer

// Tokenizer counts tokens in a text string.
type Tokenizer interface {
	CountTokens(text string) int
}

// charsPerToken is the rough average for English text. It is deliberately
// not model-accurate; the delta encoder only needs a consistent yardstick
// to compare payload sizes.
const charsPerToken = 4

// Estimate is a character-count based tokenizer.
type Estimate struct{}

// NewEstimate creates the default estimation tokenizer.
func NewEstimate() Estimate {
	return Estimate{}
}

// CountTokens estimates len(text)/4 tokens.
func (Estimate) CountTokens(text string) int {
	return len(text) / charsPerToken
}
