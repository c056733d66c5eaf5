package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BaSui01/tokensave/types"
)

func TestHashKeyStrategy_Deterministic(t *testing.T) {
	strategy := NewHashKeyStrategy()

	messages := []types.Message{
		types.NewSystemMessage("You are a helpful assistant"),
		types.NewUserMessage("Hello"),
	}

	key1 := strategy.Key(messages, "nano")
	key2 := strategy.Key(messages, "nano")

	assert.NotEmpty(t, key1)
	assert.Equal(t, key1, key2, "identical requests must produce identical keys")
	assert.Len(t, key1, 64, "key should be a hex-encoded 256-bit hash")
}

func TestHashKeyStrategy_OrderSensitive(t *testing.T) {
	strategy := NewHashKeyStrategy()

	forward := []types.Message{
		types.NewUserMessage("first"),
		types.NewUserMessage("second"),
	}
	reversed := []types.Message{
		types.NewUserMessage("second"),
		types.NewUserMessage("first"),
	}

	assert.NotEqual(t, strategy.Key(forward, "nano"), strategy.Key(reversed, "nano"),
		"message order is semantically significant and must affect the key")
}

func TestHashKeyStrategy_TierSensitive(t *testing.T) {
	strategy := NewHashKeyStrategy()
	messages := []types.Message{types.NewUserMessage("Hello")}

	assert.NotEqual(t, strategy.Key(messages, "nano"), strategy.Key(messages, "pro"))
}

func TestHashKeyStrategy_ContentSensitive(t *testing.T) {
	strategy := NewHashKeyStrategy()

	a := strategy.Key([]types.Message{types.NewUserMessage("Hello")}, "nano")
	b := strategy.Key([]types.Message{types.NewUserMessage("Bye")}, "nano")
	assert.NotEqual(t, a, b)
}

func TestHashKeyStrategy_Name(t *testing.T) {
	assert.Equal(t, "hash", NewHashKeyStrategy().Name())
}
