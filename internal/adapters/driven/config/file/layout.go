package file

import (
	"bytes"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
)

// layoutEntry is a table or key path in the order it was declared.
type layoutEntry struct {
	path  []string
	table bool
}

// layout records declaration order, which toml.Unmarshal into a map loses.
type layout struct {
	entries []layoutEntry
}

func newLayout() *layout {
	return &layout{}
}

// add records path unless it is already known.
func (l *layout) add(path []string, table bool) {
	for _, e := range l.entries {
		if e.table == table && slices.Equal(e.path, path) {
			return
		}
	}
	l.entries = append(l.entries, layoutEntry{path: slices.Clone(path), table: table})
}

// children returns the distinct table names directly under prefix.
func (l *layout) children(prefix []string) []string {
	var names []string
	for _, e := range l.entries {
		if len(e.path) <= len(prefix) || !slices.Equal(e.path[:len(prefix)], prefix) {
			continue
		}
		// A plain key directly under prefix is a value, not a table.
		if len(e.path) == len(prefix)+1 && !e.table {
			continue
		}
		name := e.path[len(prefix)]
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

// parseLayout walks the document with the streaming parser and records every
// table header and key in the order it appears.
func parseLayout(data []byte) (*layout, error) {
	l := newLayout()

	p := unstable.Parser{}
	p.Reset(data)

	var current []string
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table:
			current = keyPath(expr.Key())
			l.add(current, true)
		case unstable.ArrayTable:
			// Arrays of tables are a single value in the flattened map.
			current = keyPath(expr.Key())
			l.add(current, false)
		case unstable.KeyValue:
			l.addKeyValue(current, expr)
		}
	}
	if err := p.Error(); err != nil {
		return nil, fmt.Errorf("parse config layout: %w", err)
	}
	return l, nil
}

func (l *layout) addKeyValue(prefix []string, kv *unstable.Node) {
	path := append(slices.Clone(prefix), keyPath(kv.Key())...)

	value := kv.Value()
	if value.Kind != unstable.InlineTable {
		l.add(path, false)
		return
	}

	l.add(path, true)
	it := value.Children()
	for it.Next() {
		if child := it.Node(); child.Kind == unstable.KeyValue {
			l.addKeyValue(path, child)
		}
	}
}

func keyPath(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}

// encodeOrdered renders flattened data as TOML. Root keys come first, then
// one table per parent path, both in declaration order. Keys the layout does
// not know are appended in sorted order.
func encodeOrdered(data map[string]any, l *layout) ([]byte, error) {
	var keys []string
	seen := make(map[string]bool)
	for _, e := range l.entries {
		key := strings.Join(e.path, ".")
		if _, ok := data[key]; ok && !e.table && !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	var rest []string
	for key := range data {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	var parents []string
	groups := make(map[string][]string)
	for _, key := range keys {
		parent, leaf := "", key
		if i := strings.LastIndex(key, "."); i >= 0 {
			parent, leaf = key[:i], key[i+1:]
		}
		if _, ok := groups[parent]; !ok && parent != "" {
			parents = append(parents, parent)
		}
		groups[parent] = append(groups[parent], leaf)
	}

	var buf bytes.Buffer
	writeGroup := func(parent string) error {
		for _, leaf := range groups[parent] {
			full := leaf
			if parent != "" {
				full = parent + "." + leaf
			}
			if data[full] == nil {
				continue
			}
			value, err := encodeValue(data[full])
			if err != nil {
				return fmt.Errorf("encode %s: %w", full, err)
			}
			fmt.Fprintf(&buf, "%s = %s\n", encodeKey(leaf), value)
		}
		return nil
	}

	if err := writeGroup(""); err != nil {
		return nil, err
	}
	for _, parent := range parents {
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		segments := strings.Split(parent, ".")
		for i, s := range segments {
			segments[i] = encodeKey(s)
		}
		fmt.Fprintf(&buf, "[%s]\n", strings.Join(segments, "."))
		if err := writeGroup(parent); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// encodeValue renders a single TOML value, with any tables inline.
func encodeValue(v any) (string, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf).SetTablesInline(true)
	if err := enc.Encode(map[string]any{"v": v}); err != nil {
		return "", err
	}
	out := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(out, "v = ") {
		return "", fmt.Errorf("unexpected encoding %q", out)
	}
	return strings.TrimPrefix(out, "v = "), nil
}

var bareKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func encodeKey(k string) string {
	if bareKey.MatchString(k) {
		return k
	}
	return strconv.Quote(k)
}
