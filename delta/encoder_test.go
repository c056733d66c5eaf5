package delta

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/tokensave/types"
)

func newTestEncoder(t *testing.T) *Encoder {
	t.Helper()
	return NewEncoder(DefaultConfig(), zap.NewNop())
}

func TestShouldPartialUpdate(t *testing.T) {
	e := newTestEncoder(t)

	tests := []struct {
		name string
		old  string
		new  string
		want bool
	}{
		{
			name: "no baseline",
			old:  "",
			new:  "anything",
			want: false,
		},
		{
			name: "identical",
			old:  "same content",
			new:  "same content",
			want: true,
		},
		{
			name: "single line edit",
			old:  "def f():\n    return 1\n",
			new:  "def f():\n    return 2\n",
			want: true,
		},
		{
			name: "completely different",
			old:  "aaaaaaaaaaaaaaaaaaaa",
			new:  "zzzzzzzzzzzzzzzzzzzz",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.ShouldPartialUpdate(tt.old, tt.new))
		})
	}
}

func TestEncode_FullWhenNoBaseline(t *testing.T) {
	e := newTestEncoder(t)

	res := e.Encode("", "new content here", types.ClassCode, "")
	assert.Equal(t, types.MethodFull, res.Method)
	assert.Equal(t, "new content here", res.Content)
	assert.Zero(t, res.TokenSavings)
	assert.Equal(t, res.OriginalTokens, res.UpdatedTokens)
}

func TestEncode_FullWhenChangedTooMuch(t *testing.T) {
	e := newTestEncoder(t)

	old := strings.Repeat("alpha beta gamma\n", 20)
	updated := strings.Repeat("delta epsilon zeta\n", 20)

	res := e.Encode(old, updated, types.ClassCode, "")
	assert.Equal(t, types.MethodFull, res.Method)
	assert.Equal(t, updated, res.Content)
	assert.Zero(t, res.TokenSavings)
}

func TestEncode_CodeLineDiff(t *testing.T) {
	e := newTestEncoder(t)

	old := "def f():\n    return 1\n"
	updated := "def f():\n    return 2\n"

	res := e.Encode(old, updated, types.ClassCode, "")
	require.Equal(t, types.MethodLineDiff, res.Method)

	payload, ok := res.Content.(CodePayload)
	require.True(t, ok)
	assert.Equal(t, 3, payload.ContextLines)
	assert.NotEmpty(t, payload.Instruction)
	assert.Contains(t, payload.Diff, "-    return 1")
	assert.Contains(t, payload.Diff, "+    return 2")
	assert.Contains(t, payload.Diff, " def f():", "unchanged line appears as context")
}

func TestEncode_CodeSavingsOnLargeContent(t *testing.T) {
	e := newTestEncoder(t)

	var sb strings.Builder
	for i := 0; i < 120; i++ {
		sb.WriteString("line of perfectly ordinary code content\n")
	}
	old := sb.String()
	updated := strings.Replace(old, "ordinary", "changed!!", 1)

	res := e.Encode(old, updated, types.ClassCode, "")
	require.Equal(t, types.MethodLineDiff, res.Method)
	assert.Greater(t, res.TokenSavings, 0.5, "a one-line edit in large content should save most tokens")
	assert.Less(t, res.UpdatedTokens, res.OriginalTokens)
}

func TestEncode_IdenticalContentZeroSavings(t *testing.T) {
	e := newTestEncoder(t)
	content := "unchanged content\n\nwith two paragraphs"

	for _, class := range []types.ContentClass{types.ClassCode, types.ClassProse, types.ClassOpaque} {
		res := e.Encode(content, content, class, "ctx-1")
		assert.Zero(t, res.TokenSavings, "class %s", class)
		assert.Equal(t, res.OriginalTokens, res.UpdatedTokens, "class %s", class)
		assert.NotEqual(t, types.MethodFull, res.Method,
			"class %s keeps its method tag even with nothing to change", class)
	}
}

func TestEncode_UnknownClassFallsBackToFull(t *testing.T) {
	e := newTestEncoder(t)

	res := e.Encode("old content", "old content!", types.ContentClass("bogus"), "")
	assert.Equal(t, types.MethodFull, res.Method)
}

func TestEncode_SavingsBounds(t *testing.T) {
	e := newTestEncoder(t)

	cases := []struct {
		old, new string
		class    types.ContentClass
	}{
		{"", "", types.ClassCode},
		{"a", "a", types.ClassOpaque},
		{"def f():\n    return 1\n", "def f():\n    return 2\n", types.ClassCode},
		{`{"a":1}`, `{"a":2}`, types.ClassStructuredData},
		{"some prose here", "some prose there", types.ClassProse},
		{strings.Repeat("x\n", 200), strings.Repeat("x\n", 199) + "y\n", types.ClassCode},
	}

	for _, c := range cases {
		res := e.Encode(c.old, c.new, c.class, "")
		assert.GreaterOrEqual(t, res.TokenSavings, 0.0)
		assert.LessOrEqual(t, res.TokenSavings, 1.0)
	}
}
