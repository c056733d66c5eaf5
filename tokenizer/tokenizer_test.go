package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimate_CountTokens(t *testing.T) {
	tok := NewEstimate()

	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"abc", 0},
		{"abcd", 1},
		{"twelve chars", 3},
		{"def f():\n    return 1\n", 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tok.CountTokens(tt.text), "text %q", tt.text)
	}
}

func TestTiktoken_DefaultEncoding(t *testing.T) {
	tok := NewTiktoken("")
	assert.Equal(t, "cl100k_base", tok.encoding)
}

func TestTiktoken_FallsBackOnBadEncoding(t *testing.T) {
	tok := NewTiktoken("no_such_encoding")

	// initialization fails, so the character estimate takes over
	assert.Equal(t, 3, tok.CountTokens("twelve chars"))
}
