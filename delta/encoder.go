// Package delta encodes content updates as the cheapest structure a
// downstream consumer can use to reconstruct the new content: a unified
// line diff for code, a path-addressed patch sequence for structured data,
// paragraph chunk replacements for prose, and a word-level summary with a
// context reference for opaque content. When the content changed too much
// for any of that to pay off, the encoder says so and hands back the full
// content.
package delta

import (
	"encoding/json"

	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"

	"github.com/BaSui01/tokensave/contextcache"
	"github.com/BaSui01/tokensave/internal/metrics"
	"github.com/BaSui01/tokensave/tokenizer"
	"github.com/BaSui01/tokensave/types"
)

// Encoder picks and produces delta encodings. Construct once and inject;
// the context-reference store inside is bounded and expiring, so long-lived
// encoders do not leak remembered content.
type Encoder struct {
	cfg      Config
	logger   *zap.Logger
	tok      tokenizer.Tokenizer
	contexts *contextcache.Cache[string]
	metrics  *metrics.Collector
}

// Option customizes an Encoder.
type Option func(*Encoder)

// WithTokenizer overrides the default character-estimate tokenizer.
func WithTokenizer(t tokenizer.Tokenizer) Option {
	return func(e *Encoder) { e.tok = t }
}

// WithMetrics installs a prometheus collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Encoder) { e.metrics = c }
}

// NewEncoder creates a delta encoder.
func NewEncoder(cfg Config, logger *zap.Logger, opts ...Option) *Encoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ChangeThreshold <= 0 {
		cfg.ChangeThreshold = DefaultConfig().ChangeThreshold
	}
	if cfg.MaxChunkSize <= 0 {
		cfg.MaxChunkSize = DefaultConfig().MaxChunkSize
	}
	if cfg.ContextMaxEntries <= 0 {
		cfg.ContextMaxEntries = DefaultConfig().ContextMaxEntries
	}

	e := &Encoder{
		cfg:      cfg,
		logger:   logger.With(zap.String("component", "delta_encoder")),
		tok:      tokenizer.NewEstimate(),
		contexts: contextcache.New[string](cfg.ContextMaxEntries),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ShouldPartialUpdate reports whether a delta is worth producing: false
// when there is no baseline to diff against, and false when the change
// ratio meets or exceeds the configured threshold.
func (e *Encoder) ShouldPartialUpdate(oldContent, newContent string) bool {
	if oldContent == "" {
		return false
	}
	changeRatio := 1 - similarity(oldContent, newContent)
	return changeRatio < e.cfg.ChangeThreshold
}

// Encode produces the cheapest encoding of the old->new update for the
// declared content class. It never fails: malformed input degrades to a
// coarser encoding, ultimately the full content.
func (e *Encoder) Encode(oldContent, newContent string, class types.ContentClass, contextID string) types.UpdateResult {
	originalTokens := e.tok.CountTokens(oldContent) + e.tok.CountTokens(newContent)

	if !e.ShouldPartialUpdate(oldContent, newContent) {
		return e.finish(e.fullResult(newContent, originalTokens))
	}

	var (
		payload any
		method  types.UpdateMethod
		changed bool
	)
	switch class {
	case types.ClassCode:
		payload, changed = e.encodeCode(oldContent, newContent)
		method = types.MethodLineDiff
	case types.ClassStructuredData:
		var err error
		payload, changed, err = e.encodeStructured(oldContent, newContent)
		if err != nil {
			// wholly incomparable input: nothing smarter than a resend
			e.logger.Debug("structured encode degraded to full", zap.Error(err))
			return e.finish(e.fullResult(newContent, originalTokens))
		}
		method = types.MethodStructuralPatch
	case types.ClassProse:
		payload, changed = e.encodeProse(oldContent, newContent)
		method = types.MethodChunkDiff
	case types.ClassOpaque:
		payload, changed = e.encodeOpaque(oldContent, newContent, contextID)
		method = types.MethodContextReuse
	default:
		return e.finish(e.fullResult(newContent, originalTokens))
	}

	serialized, err := json.Marshal(payload)
	if err != nil {
		e.logger.Warn("delta payload serialization failed",
			zap.Error(types.NewError(types.ErrSerializationFailed, string(class)).WithCause(err)))
		return e.finish(e.fullResult(newContent, originalTokens))
	}

	updatedTokens := e.tok.CountTokens(string(serialized))
	if !changed {
		// no actual change lines: keep the method tag, report zero savings
		updatedTokens = originalTokens
	}

	savings := 0.0
	if originalTokens > 0 && updatedTokens < originalTokens {
		savings = 1 - float64(updatedTokens)/float64(originalTokens)
	}

	return e.finish(types.UpdateResult{
		Method:         method,
		Content:        payload,
		TokenSavings:   savings,
		OriginalTokens: originalTokens,
		UpdatedTokens:  updatedTokens,
	})
}

// ContextContent returns the content remembered under a context reference
// id, if it is still live.
func (e *Encoder) ContextContent(id string) (string, bool) {
	return e.contexts.Get(id)
}

func (e *Encoder) fullResult(newContent string, originalTokens int) types.UpdateResult {
	return types.UpdateResult{
		Method:         types.MethodFull,
		Content:        newContent,
		TokenSavings:   0,
		OriginalTokens: originalTokens,
		UpdatedTokens:  originalTokens,
	}
}

func (e *Encoder) finish(res types.UpdateResult) types.UpdateResult {
	e.metrics.RecordDeltaEncode(string(res.Method), res.TokenSavings)
	return res
}

// similarity is a character-level sequence-matcher ratio in [0,1]; 1 means
// identical. Character granularity keeps single-line edits in large content
// well under the change threshold, where line granularity would overstate
// the change.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	m := difflib.NewMatcher(chars(a), chars(b))
	return m.Ratio()
}

func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
