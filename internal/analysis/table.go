package analysis

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
)

// Kind is the declared format of a byte source.
type Kind string

const (
	KindDelimited   Kind = "delimited-text"
	KindSpreadsheet Kind = "spreadsheet"
)

// Table is the uniform row/column model every source is loaded into.
type Table struct {
	Columns []string
	Rows    []Row
}

// Load reads a byte source of the given kind into a Table. A well-formed source
// without data rows yields an empty Table (no columns, no rows) and no error.
func Load(r io.Reader, kind Kind, opt Options) (*Table, error) {
	if r == nil {
		return nil, loadErr(kind, "nil reader")
	}
	switch kind {
	case KindDelimited:
		return loadDelimited(r, opt)
	case KindSpreadsheet:
		return loadSpreadsheet(r)
	default:
		return nil, loadErr(kind, "unknown source kind %q", string(kind))
	}
}

func loadDelimited(src io.Reader, opt Options) (*Table, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = ','
	}
	br := bufio.NewReader(src)
	// A UTF-8 byte order mark would otherwise end up inside the first column name.
	if bom, err := br.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = br.Discard(3)
	}
	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, loadErr(KindDelimited, "read header: %w", err)
	}
	b := newTableBuilder(header)
	line := 1
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, loadErr(KindDelimited, "read row %d: %w", line+1, err)
		}
		line++
		vals := make([]any, len(rec))
		for i, s := range rec {
			vals[i] = s
		}
		b.add(vals)
	}
	return b.table(), nil
}

// tableBuilder maps positional records onto a de-duplicated column list.
type tableBuilder struct {
	columns []string
	index   map[string]int
	slot    []int // header position -> column index
	rows    []Row
}

func newTableBuilder(header []string) *tableBuilder {
	b := &tableBuilder{slot: make([]int, len(header))}
	seen := make(map[string]int, len(header))
	for i, name := range header {
		if idx, ok := seen[name]; ok {
			b.slot[i] = idx
			continue
		}
		seen[name] = len(b.columns)
		b.slot[i] = len(b.columns)
		b.columns = append(b.columns, name)
	}
	b.index = columnIndex(b.columns)
	return b
}

// add appends one record. Fields past the header are dropped; missing trailing
// fields stay absent. For a repeated header name the last present field wins.
func (b *tableBuilder) add(rec []any) {
	vals := make([]any, len(b.columns))
	for i, v := range rec {
		if i >= len(b.slot) {
			break
		}
		if v == nil && vals[b.slot[i]] != nil {
			continue
		}
		vals[b.slot[i]] = v
	}
	b.rows = append(b.rows, Row{columns: b.columns, index: b.index, values: vals})
}

// table finalizes the builder. Columns come from the first data row, so a
// header-only source has none.
func (b *tableBuilder) table() *Table {
	if len(b.rows) == 0 {
		return &Table{}
	}
	return &Table{Columns: b.columns, Rows: b.rows}
}

// blankHeaderName names the i-th unnamed header cell of a spreadsheet.
func blankHeaderName(i int) string {
	if i == 0 {
		return "__EMPTY"
	}
	return "__EMPTY_" + strconv.Itoa(i)
}

func (k Kind) String() string { return string(k) }
