package keymap

import (
	"fmt"
	"sort"
	"time"

	"github.com/starchart-tools/wayfarer/internal/savefile"
)

// Observation records one unknown obfuscated key sighted during a run,
// with the first document path it appeared at. The local store
// deduplicates observations across runs by key string.
type Observation struct {
	// Key is the obfuscated identifier with no known mapping.
	Key string
	// Path is the first-seen document path, using canonical names for
	// the segments that did resolve.
	Path string
	// SeenAt is when the key was first observed this run.
	SeenAt time.Time
}

// Apply rewrites a document tree, replacing every known obfuscated key
// with its canonical name. Unknown keys are left in place and reported
// as observations, deduplicated by key string with the lexicographically
// first-walked path kept as first-seen.
//
// The input tree is not modified; a new tree is returned.
func (t *Table) Apply(root savefile.Node) (savefile.Node, []Observation) {
	w := &walker{table: t, seen: make(map[string]int)}
	out := w.walk(root, "")

	// Stable report order regardless of map iteration.
	sort.Slice(w.observations, func(i, j int) bool {
		return w.observations[i].Key < w.observations[j].Key
	})
	return out, w.observations
}

type walker struct {
	table        *Table
	observations []Observation
	seen         map[string]int // key -> index into observations
}

// walk renames keys recursively. Maps are traversed in sorted key order
// so the first-seen path for a repeated unknown key is deterministic.
func (w *walker) walk(n savefile.Node, path string) savefile.Node {
	switch t := n.(type) {
	case savefile.Map:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := make(savefile.Map, len(t))
		for _, k := range keys {
			name, known := w.table.Resolve(k)
			if !known {
				name = k
				w.observe(k, childPath(path, k))
			}
			out[name] = w.walk(t[k], childPath(path, name))
		}
		return out
	case savefile.List:
		out := make(savefile.List, len(t))
		for i, child := range t {
			out[i] = w.walk(child, fmt.Sprintf("%s[%d]", path, i))
		}
		return out
	default:
		return n
	}
}

// observe records an unknown key once per run.
func (w *walker) observe(key, path string) {
	if _, ok := w.seen[key]; ok {
		return
	}
	w.seen[key] = len(w.observations)
	w.observations = append(w.observations, Observation{
		Key:    key,
		Path:   path,
		SeenAt: time.Now().UTC(),
	})
}

func childPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}
