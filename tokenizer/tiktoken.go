package tokenizer

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Tiktoken counts tokens with a real BPE encoding. Initialization is lazy
// because the encoding tables may be downloaded on first use; if they
// cannot be loaded the tokenizer degrades to the character estimate.
type Tiktoken struct {
	encoding string
	enc      *tiktoken.Tiktoken
	once     sync.Once
	initErr  error
	fallback Estimate
}

// NewTiktoken creates a tokenizer for the given tiktoken encoding name
// (for example "cl100k_base" or "o200k_base"). An empty name selects
// cl100k_base.
func NewTiktoken(encoding string) *Tiktoken {
	if encoding == "" {
		encoding = "cl100k_base"
	}
	return &Tiktoken{encoding: encoding}
}

func (t *Tiktoken) init() error {
	t.once.Do(func() {
		enc, err := tiktoken.GetEncoding(t.encoding)
		if err != nil {
			t.initErr = err
			return
		}
		t.enc = enc
	})
	return t.initErr
}

// CountTokens returns the exact token count for text, or the character
// estimate if the encoding could not be initialized.
func (t *Tiktoken) CountTokens(text string) int {
	if err := t.init(); err != nil {
		return t.fallback.CountTokens(text)
	}
	return len(t.enc.Encode(text, nil, nil))
}
