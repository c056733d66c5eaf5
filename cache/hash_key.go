package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/BaSui01/tokensave/types"
)

// HashKeyStrategy hashes the canonical form of the whole request.
//
// The canonical form is the JSON encoding of the ordered message list plus
// the tier string: struct field order is fixed by the Message type and the
// message list keeps its caller order, because message order is part of the
// request's meaning and must never be sorted away.
type HashKeyStrategy struct{}

// NewHashKeyStrategy creates the hash strategy.
func NewHashKeyStrategy() *HashKeyStrategy {
	return &HashKeyStrategy{}
}

// Name returns the strategy name.
func (s *HashKeyStrategy) Name() string {
	return "hash"
}

// Key returns the hex SHA-256 of the canonical request form.
func (s *HashKeyStrategy) Key(messages []types.Message, tier string) string {
	data, err := json.Marshal(struct {
		Messages []types.Message `json:"messages"`
		Tier     string          `json:"tier"`
	}{
		Messages: messages,
		Tier:     tier,
	})
	if err != nil {
		// fallback: deterministic string form, still collision-safe enough
		data = []byte(fmt.Sprintf("%v|%s", messages, tier))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
