// Package document implements the in-memory JSON document model used by
// profiles, backups and the live settings file: parsing, stable
// serialization, and dotted-path access into the untyped JSON tree.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kartew/claude-profiles/internal/ccp/domain"
)

// Document is a JSON object as decoded by encoding/json: nested
// map[string]any values with []any, string, json.Number, bool and nil leaves.
type Document map[string]any

// New returns an empty document.
func New() Document {
	return Document{}
}

// Parse decodes data into a Document. The top-level JSON value must be an
// object; anything else (including trailing garbage) reports domain.ErrParse.
func Parse(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON document", domain.ErrParse)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value must be an object", domain.ErrParse)
	}
	return Document(obj), nil
}

// Serialize renders the document pretty-printed with deterministic key order
// and a trailing newline, so stored profiles stay hand-editable and diffable.
func (d Document) Serialize() ([]byte, error) {
	data, err := json.MarshalIndent(map[string]any(d), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}
	return append(data, '\n'), nil
}

// Get resolves a dotted path and returns the value it addresses.
// Missing segments, or descent through a non-object value, report
// domain.ErrPathNotFound.
func (d Document) Get(path string) (any, error) {
	segments, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	current := any(map[string]any(d))
	for _, segment := range segments {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%q: %w", path, domain.ErrPathNotFound)
		}
		next, ok := obj[segment]
		if !ok {
			return nil, fmt.Errorf("%q: %w", path, domain.ErrPathNotFound)
		}
		current = next
	}
	return current, nil
}

// Set writes value at the dotted path, creating intermediate objects as
// needed. An intermediate segment that already holds a non-object value
// reports domain.ErrTypeConflict.
func (d Document) Set(path string, value any) error {
	segments, err := splitPath(path)
	if err != nil {
		return err
	}

	current := map[string]any(d)
	for i, segment := range segments {
		if i == len(segments)-1 {
			current[segment] = value
			return nil
		}
		next, ok := current[segment]
		if !ok {
			child := map[string]any{}
			current[segment] = child
			current = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("%q: segment %q holds a non-object value: %w", path, segment, domain.ErrTypeConflict)
		}
		current = child
	}
	return nil
}

// Unset removes the leaf at the dotted path. Removing an absent path is a
// no-op, keeping Unset idempotent. The returned bool reports whether a value
// was actually removed.
func (d Document) Unset(path string) (bool, error) {
	segments, err := splitPath(path)
	if err != nil {
		return false, err
	}

	current := map[string]any(d)
	for i, segment := range segments {
		if i == len(segments)-1 {
			if _, ok := current[segment]; !ok {
				return false, nil
			}
			delete(current, segment)
			return true, nil
		}
		next, ok := current[segment]
		if !ok {
			return false, nil
		}
		child, ok := next.(map[string]any)
		if !ok {
			return false, nil
		}
		current = child
	}
	return false, nil
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	return Document(cloneValue(map[string]any(d)).(map[string]any))
}

// Equal reports semantic equality: same path-to-value set regardless of key
// order or number representation.
func Equal(a, b Document) bool {
	left, err := a.Serialize()
	if err != nil {
		return false
	}
	right, err := b.Serialize()
	if err != nil {
		return false
	}
	return bytes.Equal(left, right)
}

// ParseScalar interprets a command-line value the way the set command
// expects: well-formed JSON is decoded (numbers, booleans, null, objects,
// arrays), anything else is taken as a plain string.
func ParseScalar(raw string) any {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err == nil && !dec.More() {
		return v
	}
	return raw
}

func splitPath(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("key path cannot be empty")
	}
	segments := strings.Split(path, ".")
	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("key path %q contains an empty segment", path)
		}
	}
	return segments, nil
}

func cloneValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(value))
		for k, child := range value {
			out[k] = cloneValue(child)
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, child := range value {
			out[i] = cloneValue(child)
		}
		return out
	default:
		return value
	}
}
