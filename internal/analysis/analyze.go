package analysis

import (
	"io"

	"golang.org/x/sync/errgroup"
)

// Options controls loading and result assembly.
type Options struct {
	// Delimiter for delimited text. 0 means not chosen: Load uses ',' and
	// callers that know the file name may pick one from it.
	Delimiter rune
	// PreviewRows caps the preview. Values <= 0 fall back to 5.
	PreviewRows int
}

// DefaultOptions returns the defaults used by the CLI and the upload endpoint.
func DefaultOptions() Options {
	return Options{
		PreviewRows: 5,
	}
}

// Result is the complete analysis of one tabular source.
type Result struct {
	RowCount     int                     `json:"rows" yaml:"rows"`
	ColumnCount  int                     `json:"columns" yaml:"columns"`
	ColumnNames  []string                `json:"columnNames" yaml:"columnNames"`
	DataTypes    map[string]Type         `json:"dataTypes" yaml:"dataTypes"`
	NumericStats map[string]NumericStats `json:"numericStats" yaml:"numericStats"`
	Preview      []Row                   `json:"preview" yaml:"preview"`
}

// Analyze loads the source and derives types, statistics and a preview from it.
// Loader failures are returned unchanged as *LoadError; nothing is returned
// alongside an error.
func Analyze(r io.Reader, kind Kind, opt Options) (*Result, error) {
	t, err := Load(r, kind, opt)
	if err != nil {
		return nil, err
	}
	return Summarize(t, opt), nil
}

// Summarize builds a Result from an already loaded table. Type inference and
// statistics only read the rows, so they run side by side.
func Summarize(t *Table, opt Options) *Result {
	var (
		types map[string]Type
		stats map[string]NumericStats
		g     errgroup.Group
	)
	g.Go(func() error {
		types = InferTypes(t.Rows, t.Columns)
		return nil
	})
	g.Go(func() error {
		stats = ComputeNumericStats(t.Rows, t.Columns)
		return nil
	})
	_ = g.Wait() // both are total

	limit := opt.PreviewRows
	if limit <= 0 {
		limit = 5
	}
	if limit > len(t.Rows) {
		limit = len(t.Rows)
	}
	preview := make([]Row, limit)
	copy(preview, t.Rows[:limit])

	names := make([]string, len(t.Columns))
	copy(names, t.Columns)

	return &Result{
		RowCount:     len(t.Rows),
		ColumnCount:  len(names),
		ColumnNames:  names,
		DataTypes:    types,
		NumericStats: stats,
		Preview:      preview,
	}
}
