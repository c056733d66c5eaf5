package delta

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/tokensave/types"
)

func TestChunkText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		maxSize int
		want    []string
	}{
		{
			name:    "empty",
			text:    "",
			maxSize: 500,
			want:    nil,
		},
		{
			name:    "single paragraph",
			text:    "just one paragraph",
			maxSize: 500,
			want:    []string{"just one paragraph"},
		},
		{
			name:    "small paragraphs pack together",
			text:    "first\n\nsecond\n\nthird",
			maxSize: 500,
			want:    []string{"first\n\nsecond\n\nthird"},
		},
		{
			name:    "paragraphs split at the size bound",
			text:    "first\n\nsecond\n\nthird",
			maxSize: 14,
			want:    []string{"first\n\nsecond", "third"},
		},
		{
			name:    "oversized paragraph stays one chunk",
			text:    strings.Repeat("x", 40) + "\n\nshort",
			maxSize: 10,
			want:    []string{strings.Repeat("x", 40), "short"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chunkText(tt.text, tt.maxSize))
		})
	}
}

func TestEncode_ProseChangedChunk(t *testing.T) {
	e := NewEncoder(Config{ChangeThreshold: 0.3, MaxChunkSize: 20, ContextMaxEntries: 8}, nil)

	old := "stable first paragraph\n\nold second paragraph"
	updated := "stable first paragraph\n\nnew second paragraph"

	res := e.Encode(old, updated, types.ClassProse, "")
	require.Equal(t, types.MethodChunkDiff, res.Method)

	payload, ok := res.Content.(ProsePayload)
	require.True(t, ok)
	assert.Equal(t, 2, payload.TotalChunks)
	require.Len(t, payload.Changes, 1)

	change := payload.Changes[0]
	assert.Equal(t, 1, change.Position)
	require.NotNil(t, change.Old)
	assert.Equal(t, "old second paragraph", *change.Old)
	assert.Equal(t, "new second paragraph", change.New)
}

func TestEncode_ProseAppendedChunk(t *testing.T) {
	e := NewEncoder(Config{ChangeThreshold: 0.5, MaxChunkSize: 30, ContextMaxEntries: 8}, nil)

	old := "the one existing paragraph"
	updated := "the one existing paragraph\n\na freshly appended paragraph"

	res := e.Encode(old, updated, types.ClassProse, "")
	require.Equal(t, types.MethodChunkDiff, res.Method)

	payload := res.Content.(ProsePayload)
	require.Len(t, payload.Changes, 1)
	assert.Equal(t, 1, payload.Changes[0].Position)
	assert.Nil(t, payload.Changes[0].Old, "appended chunks have no old text")
	assert.Equal(t, "a freshly appended paragraph", payload.Changes[0].New)
}

func TestEncode_ProseOldPreviewTruncated(t *testing.T) {
	e := NewEncoder(Config{ChangeThreshold: 0.9, MaxChunkSize: 200, ContextMaxEntries: 8}, nil)

	old := strings.Repeat("w", 120)
	updated := strings.Repeat("w", 119) + "!"

	res := e.Encode(old, updated, types.ClassProse, "")
	payload := res.Content.(ProsePayload)
	require.Len(t, payload.Changes, 1)
	require.NotNil(t, payload.Changes[0].Old)
	assert.Len(t, *payload.Changes[0].Old, 50, "old chunk text is truncated to a preview")
}
