package savefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Node is one node of the canonical document tree: a Map, a List, or a
// Scalar. The tree is ephemeral; it lives for one pipeline run and is
// never persisted.
type Node interface {
	// isNode restricts implementations to this package's three shapes.
	isNode()
}

// Map is an object node keyed by (possibly obfuscated) field names.
type Map map[string]Node

// List is an ordered sequence node.
type List []Node

// Scalar is a leaf node holding a string, float64, bool, or nil.
type Scalar struct {
	Value any
}

func (Map) isNode()    {}
func (List) isNode()   {}
func (Scalar) isNode() {}

// ParseDocument parses JSON bytes into a Node tree. A trailing NUL
// terminator, which the game appends to the final frame, is stripped.
func ParseDocument(data []byte) (Node, error) {
	data = bytes.TrimRight(data, "\x00")
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, corrupt(fmt.Errorf("document is not valid JSON: %w", err))
	}
	return fromJSON(raw), nil
}

// fromJSON converts the encoding/json generic representation into Nodes.
func fromJSON(v any) Node {
	switch t := v.(type) {
	case map[string]any:
		m := make(Map, len(t))
		for k, child := range t {
			m[k] = fromJSON(child)
		}
		return m
	case []any:
		l := make(List, len(t))
		for i, child := range t {
			l[i] = fromJSON(child)
		}
		return l
	default:
		// string, float64, bool, or nil
		return Scalar{Value: t}
	}
}

// GetPath walks nested maps by key and returns the node at the end of the
// path, or false if any segment is missing or not a map.
func GetPath(n Node, path ...string) (Node, bool) {
	cur := n
	for _, key := range path {
		m, ok := cur.(Map)
		if !ok {
			return nil, false
		}
		child, ok := m[key]
		if !ok {
			return nil, false
		}
		cur = child
	}
	return cur, true
}

// String extracts a string scalar.
func String(n Node) (string, bool) {
	s, ok := n.(Scalar)
	if !ok {
		return "", false
	}
	v, ok := s.Value.(string)
	return v, ok
}

// Int extracts a numeric scalar as an int. JSON numbers arrive as
// float64; fractional values are truncated.
func Int(n Node) (int, bool) {
	s, ok := n.(Scalar)
	if !ok {
		return 0, false
	}
	f, ok := s.Value.(float64)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Int64 extracts a numeric scalar as an int64.
func Int64(n Node) (int64, bool) {
	s, ok := n.(Scalar)
	if !ok {
		return 0, false
	}
	f, ok := s.Value.(float64)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// Strings extracts a list of string scalars, skipping non-strings.
func Strings(n Node) []string {
	l, ok := n.(List)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, child := range l {
		if s, ok := String(child); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Equal reports whether two trees are structurally identical. Map key
// order is irrelevant; list order matters.
func Equal(a, b Node) bool {
	switch at := a.(type) {
	case Map:
		bt, ok := b.(Map)
		if !ok || len(at) != len(bt) {
			return false
		}
		keys := make([]string, 0, len(at))
		for k := range at {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			bv, ok := bt[k]
			if !ok || !Equal(at[k], bv) {
				return false
			}
		}
		return true
	case List:
		bt, ok := b.(List)
		if !ok || len(at) != len(bt) {
			return false
		}
		for i := range at {
			if !Equal(at[i], bt[i]) {
				return false
			}
		}
		return true
	case Scalar:
		bt, ok := b.(Scalar)
		return ok && at.Value == bt.Value
	default:
		return a == nil && b == nil
	}
}
