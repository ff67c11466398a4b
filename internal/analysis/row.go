package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Row is one record of a tabular source. Values are positional against the
// column list shared by every row of the same table; a nil value is an absent cell.
// Rows have no mutators and are safe to share once built.
type Row struct {
	columns []string
	index   map[string]int // shared by every row of a table
	values  []any
}

func newRow(columns []string, values []any) Row {
	return Row{columns: columns, index: columnIndex(columns), values: values}
}

// columnIndex maps a column name to its position. The first occurrence wins.
func columnIndex(columns []string) map[string]int {
	m := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, ok := m[c]; !ok {
			m[c] = i
		}
	}
	return m
}

// Get returns the raw value for col. ok is false when the column is unknown.
func (r Row) Get(col string) (any, bool) {
	i, ok := r.index[col]
	if !ok || i >= len(r.values) {
		return nil, false
	}
	return r.values[i], true
}

// Columns returns the column names in source order.
func (r Row) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Values returns a copy of the raw values in column order.
func (r Row) Values() []any {
	out := make([]any, len(r.values))
	copy(out, r.values)
	return out
}

// Len is the number of columns.
func (r Row) Len() int { return len(r.columns) }

// MarshalJSON writes the row as an object whose keys keep column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("marshal column %q: %w", c, err)
		}
		b.Write(k)
		b.WriteByte(':')
		v, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, fmt.Errorf("marshal value for %q: %w", c, err)
		}
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// MarshalYAML emits an ordered mapping node.
func (r Row) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for i, c := range r.columns {
		k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c}
		v := &yaml.Node{}
		if err := v.Encode(r.values[i]); err != nil {
			return nil, fmt.Errorf("encode value for %q: %w", c, err)
		}
		n.Content = append(n.Content, k, v)
	}
	return n, nil
}
