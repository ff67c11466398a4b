package analysis

import (
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// loadSpreadsheet reads the first sheet of an OOXML workbook. Leading blank rows
// are skipped, the first non-blank row is the header, and blank data rows are dropped.
// Other sheets are never opened.
func loadSpreadsheet(src io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, loadErr(KindSpreadsheet, "open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, loadErr(KindSpreadsheet, "workbook has no sheets")
	}
	sheet := sheets[0]
	grid, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, loadErr(KindSpreadsheet, "read sheet %q: %w", sheet, err)
	}

	// GetRows trims trailing empty cells, so the header may be narrower than
	// the data below it.
	width := 0
	for _, cells := range grid {
		width = max(width, len(cells))
	}

	var b *tableBuilder
	for i, cells := range grid {
		if blankRow(cells) {
			continue
		}
		if b == nil {
			b = newTableBuilder(headerNames(cells, width))
			continue
		}
		vals := make([]any, len(cells))
		for j, raw := range cells {
			if raw == "" {
				continue
			}
			v, err := typedCell(f, sheet, j+1, i+1, raw)
			if err != nil {
				return nil, loadErr(KindSpreadsheet, "read sheet %q row %d: %w", sheet, i+1, err)
			}
			vals[j] = v
		}
		b.add(vals)
	}
	if b == nil {
		return &Table{}, nil
	}
	return b.table(), nil
}

// typedCell converts a raw cell string using the cell's stored type, so booleans
// and numbers keep their primitive form.
func typedCell(f *excelize.File, sheet string, col, row int, raw string) (any, error) {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	ct, err := f.GetCellType(sheet, ref)
	if err != nil {
		return nil, err
	}
	switch ct {
	case excelize.CellTypeBool:
		if v, err := strconv.ParseBool(raw); err == nil {
			return v, nil
		}
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		// cells without an explicit type attribute hold numbers
		if x, ok := parseFinite(raw); ok {
			return x, nil
		}
	}
	return raw, nil
}

// headerNames names every header cell up to width, padding missing trailing
// cells as blanks.
func headerNames(cells []string, width int) []string {
	out := make([]string, max(width, len(cells)))
	blank := 0
	for i := range out {
		var c string
		if i < len(cells) {
			c = cells[i]
		}
		if c == "" {
			out[i] = blankHeaderName(blank)
			blank++
			continue
		}
		out[i] = c
	}
	return out
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
