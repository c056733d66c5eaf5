package delta

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const codeContextLines = 3

// CodePayload carries a unified line diff with 3 lines of context around
// each change.
type CodePayload struct {
	Instruction  string `json:"instruction"`
	Diff         string `json:"diff"`
	ContextLines int    `json:"context_lines"`
}

func (e *Encoder) encodeCode(oldContent, newContent string) (CodePayload, bool) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: "before",
		ToFile:   "after",
		Context:  codeContextLines,
	})
	if err != nil {
		diff = ""
	}

	return CodePayload{
		Instruction:  "Apply this unified diff to the previous version of the code.",
		Diff:         diff,
		ContextLines: codeContextLines,
	}, strings.TrimSpace(diff) != ""
}
