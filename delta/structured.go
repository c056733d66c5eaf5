package delta

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/BaSui01/tokensave/types"
)

// Patch operations.
const (
	OpAdd     = "add"
	OpRemove  = "remove"
	OpReplace = "replace"
)

// PatchOp is one step of a structural patch, addressed by a JSON-pointer
// style path into the nested structure.
type PatchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// StructuredPayload carries the ordered patch sequence that transforms the
// old structure into the new one.
type StructuredPayload struct {
	Instruction string    `json:"instruction"`
	Patches     []PatchOp `json:"patches"`
}

// encodeStructured parses both sides as JSON and walks them. If the new
// side is not parseable the input is wholly incomparable and the caller
// falls back to a full resend; if only the old side is unparseable the
// patch degrades to a single replace at the root.
func (e *Encoder) encodeStructured(oldContent, newContent string) (StructuredPayload, bool, error) {
	var newV any
	if err := json.Unmarshal([]byte(newContent), &newV); err != nil {
		return StructuredPayload{}, false,
			types.NewError(types.ErrMalformedInput, "new content is not structured data").WithCause(err)
	}

	var patches []PatchOp
	var oldV any
	if err := json.Unmarshal([]byte(oldContent), &oldV); err != nil {
		patches = []PatchOp{{Op: OpReplace, Path: "", Value: newV}}
	} else {
		patches = diffValues("", oldV, newV)
	}

	payload := StructuredPayload{
		Instruction: "Apply these patch operations to the previous structure, in order.",
		Patches:     patches,
	}
	return payload, len(patches) > 0, nil
}

// diffValues emits the patch ops that turn old into new at path. Map pairs
// are walked key by key; list pairs are replaced wholesale on any
// inequality; everything else, including type mismatches, is a single
// replace at the path.
func diffValues(path string, oldV, newV any) []PatchOp {
	if reflect.DeepEqual(oldV, newV) {
		return nil
	}

	oldMap, oldIsMap := oldV.(map[string]any)
	newMap, newIsMap := newV.(map[string]any)
	if oldIsMap && newIsMap {
		var patches []PatchOp
		for _, key := range unionKeys(oldMap, newMap) {
			childPath := path + "/" + escapePointer(key)
			oldChild, inOld := oldMap[key]
			newChild, inNew := newMap[key]
			switch {
			case !inOld:
				patches = append(patches, PatchOp{Op: OpAdd, Path: childPath, Value: newChild})
			case !inNew:
				patches = append(patches, PatchOp{Op: OpRemove, Path: childPath})
			default:
				patches = append(patches, diffValues(childPath, oldChild, newChild)...)
			}
		}
		return patches
	}

	_, oldIsList := oldV.([]any)
	_, newIsList := newV.([]any)
	if oldIsList && newIsList {
		// lists are replaced whole; element-wise diffing is not worth the
		// payload bookkeeping at this granularity
		return []PatchOp{{Op: OpReplace, Path: path, Value: newV}}
	}

	return []PatchOp{{Op: OpReplace, Path: path, Value: newV}}
}

// ApplyPatches applies a patch sequence to old and returns the resulting
// structure. old is not mutated. It is the reference reconstruction used by
// consumers and by the round-trip tests.
func ApplyPatches(old any, patches []PatchOp) (any, error) {
	result := deepCopy(old)
	for _, p := range patches {
		var err error
		result, err = applyOne(result, p)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func applyOne(root any, p PatchOp) (any, error) {
	segments := parsePointer(p.Path)
	if len(segments) == 0 {
		if p.Op == OpRemove {
			return nil, nil
		}
		return p.Value, nil
	}

	parent := root
	for _, seg := range segments[:len(segments)-1] {
		m, ok := parent.(map[string]any)
		if !ok {
			return nil, types.NewError(types.ErrMalformedInput,
				fmt.Sprintf("patch path %q traverses a non-object", p.Path))
		}
		parent, ok = m[seg]
		if !ok {
			return nil, types.NewError(types.ErrMalformedInput,
				fmt.Sprintf("patch path %q has no node %q", p.Path, seg))
		}
	}

	m, ok := parent.(map[string]any)
	if !ok {
		return nil, types.NewError(types.ErrMalformedInput,
			fmt.Sprintf("patch path %q does not end in an object", p.Path))
	}

	last := segments[len(segments)-1]
	switch p.Op {
	case OpAdd, OpReplace:
		m[last] = p.Value
	case OpRemove:
		delete(m, last)
	default:
		return nil, types.NewError(types.ErrMalformedInput, fmt.Sprintf("unknown patch op %q", p.Op))
	}
	return root, nil
}

func unionKeys(a, b map[string]any) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		seen[k] = struct{}{}
	}
	for k := range b {
		seen[k] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func escapePointer(key string) string {
	key = strings.ReplaceAll(key, "~", "~0")
	return strings.ReplaceAll(key, "/", "~1")
}

func unescapePointer(seg string) string {
	seg = strings.ReplaceAll(seg, "~1", "/")
	return strings.ReplaceAll(seg, "~0", "~")
}

func parsePointer(path string) []string {
	if path == "" {
		return nil
	}
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	segments := make([]string, len(parts))
	for i, p := range parts {
		segments[i] = unescapePointer(p)
	}
	return segments
}

func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = deepCopy(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = deepCopy(child)
		}
		return out
	default:
		return v
	}
}
