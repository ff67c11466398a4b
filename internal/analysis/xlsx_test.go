package analysis

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

type sheetData struct {
	name  string
	start int // first row number written; 0 means 1
	rows  [][]any
}

func workbook(t *testing.T, sheets ...sheetData) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
		start := s.start
		if start == 0 {
			start = 1
		}
		for j, row := range s.rows {
			ref, err := excelize.CoordinatesToCellName(1, start+j)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			r := row
			if err := f.SetSheetRow(s.name, ref, &r); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestLoadSpreadsheetTypedCells(t *testing.T) {
	data := workbook(t, sheetData{name: "Data", rows: [][]any{
		{"sku", "qty", "price", "instock"},
		{"A-1", 3, 9.5, true},
		{"B-2", 7, "12", false},
	}})
	tab, err := Load(bytes.NewReader(data), KindSpreadsheet, DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tab.Columns) != 4 || len(tab.Rows) != 2 {
		t.Fatalf("got %d cols %d rows", len(tab.Columns), len(tab.Rows))
	}
	if v, _ := tab.Rows[0].Get("qty"); v != float64(3) {
		t.Fatalf("qty = %#v, want float64 3", v)
	}
	if v, _ := tab.Rows[0].Get("price"); v != 9.5 {
		t.Fatalf("price = %#v", v)
	}
	if v, _ := tab.Rows[0].Get("instock"); v != true {
		t.Fatalf("instock = %#v, want bool", v)
	}
	if v, _ := tab.Rows[1].Get("price"); v != "12" {
		t.Fatalf("text cell = %#v, want string", v)
	}
	if v, _ := tab.Rows[0].Get("sku"); v != "A-1" {
		t.Fatalf("sku = %#v", v)
	}
}

func TestLoadSpreadsheetFirstSheetOnly(t *testing.T) {
	data := workbook(t,
		sheetData{name: "First", rows: [][]any{{"a", "b"}, {1, 2}}},
		sheetData{name: "Second", rows: [][]any{{"x", "y", "z"}, {"p", "q", "r"}, {"s", "t", "u"}}},
	)
	res, err := Analyze(bytes.NewReader(data), KindSpreadsheet, DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.RowCount != 1 || res.ColumnCount != 2 {
		t.Fatalf("rows=%d cols=%d, want 1/2", res.RowCount, res.ColumnCount)
	}
	if res.ColumnNames[0] != "a" || res.ColumnNames[1] != "b" {
		t.Fatalf("columns = %v", res.ColumnNames)
	}
}

func TestLoadSpreadsheetBlankRowsAndHeaders(t *testing.T) {
	data := workbook(t, sheetData{name: "S", start: 3, rows: [][]any{
		{"name", "", "score"},
		{"ann", "x", 4},
		{},
		{"bob", nil, 5},
	}})
	tab, err := Load(bytes.NewReader(data), KindSpreadsheet, DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tab.Columns[1] != "__EMPTY" {
		t.Fatalf("blank header named %q", tab.Columns[1])
	}
	if len(tab.Rows) != 2 {
		t.Fatalf("rows = %d, want blank row skipped", len(tab.Rows))
	}
	if v, ok := tab.Rows[1].Get("__EMPTY"); !ok || v != nil {
		t.Fatalf("missing cell = %#v, want absent", v)
	}
}

func TestLoadSpreadsheetTrailingBlankHeader(t *testing.T) {
	data := workbook(t, sheetData{name: "Data", rows: [][]any{
		{"a", "b", nil, nil},
		{1, 2, 3, 4},
	}})
	tab, err := Load(bytes.NewReader(data), KindSpreadsheet, DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"a", "b", "__EMPTY", "__EMPTY_1"}
	if len(tab.Columns) != len(want) {
		t.Fatalf("columns = %v, want %v", tab.Columns, want)
	}
	for i, c := range want {
		if tab.Columns[i] != c {
			t.Fatalf("columns = %v, want %v", tab.Columns, want)
		}
	}
	if v, _ := tab.Rows[0].Get("__EMPTY"); v != float64(3) {
		t.Fatalf("__EMPTY = %#v", v)
	}
	if v, _ := tab.Rows[0].Get("__EMPTY_1"); v != float64(4) {
		t.Fatalf("__EMPTY_1 = %#v", v)
	}
}

func TestLoadSpreadsheetHeaderOnly(t *testing.T) {
	data := workbook(t, sheetData{name: "S", rows: [][]any{{"a", "b"}}})
	tab, err := Load(bytes.NewReader(data), KindSpreadsheet, DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tab.Columns) != 0 || len(tab.Rows) != 0 {
		t.Fatalf("expected empty table, got %+v", tab)
	}
}

func TestLoadSpreadsheetCorrupt(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte("definitely not a zip archive")), KindSpreadsheet, DefaultOptions())
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
	if le.Kind != KindSpreadsheet {
		t.Fatalf("kind = %q", le.Kind)
	}
}
