package document

import (
	"encoding/json"
	"sort"
)

// DiffEntry describes one leaf path where two documents disagree. A path
// present on only one side reports the other side as absent via the
// presence flags.
type DiffEntry struct {
	Path    string
	Left    any
	Right   any
	InLeft  bool
	InRight bool
}

// Diff performs a flattened structural comparison over the union of leaf
// paths in both documents. Paths whose values are semantically equal on both
// sides are omitted. Entries are sorted by path.
func Diff(left, right Document) []DiffEntry {
	leftLeaves := map[string]any{}
	flatten("", map[string]any(left), leftLeaves)
	rightLeaves := map[string]any{}
	flatten("", map[string]any(right), rightLeaves)

	paths := make([]string, 0, len(leftLeaves)+len(rightLeaves))
	seen := map[string]struct{}{}
	for path := range leftLeaves {
		paths = append(paths, path)
		seen[path] = struct{}{}
	}
	for path := range rightLeaves {
		if _, ok := seen[path]; !ok {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	var entries []DiffEntry
	for _, path := range paths {
		lv, inLeft := leftLeaves[path]
		rv, inRight := rightLeaves[path]
		if inLeft && inRight && leafEqual(lv, rv) {
			continue
		}
		entries = append(entries, DiffEntry{
			Path:    path,
			Left:    lv,
			Right:   rv,
			InLeft:  inLeft,
			InRight: inRight,
		})
	}
	return entries
}

// flatten records every leaf value under its dotted path. Scalars, arrays and
// empty objects are leaves; non-empty objects are descended into.
func flatten(prefix string, obj map[string]any, out map[string]any) {
	if len(obj) == 0 && prefix != "" {
		out[prefix] = obj
		return
	}
	for key, value := range obj {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if child, ok := value.(map[string]any); ok {
			flatten(path, child, out)
			continue
		}
		out[path] = value
	}
}

// leafEqual compares two leaf values through their canonical JSON encoding,
// so json.Number and float64 renditions of the same number compare equal.
func leafEqual(a, b any) bool {
	left, err := json.Marshal(a)
	if err != nil {
		return false
	}
	right, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(left) == string(right)
}
