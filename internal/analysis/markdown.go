package analysis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Markdown renders a compact report suitable for docs or chat prompts.
func (r *Result) Markdown(name string) string {
	return r.render(name, func(t table.Writer) string { return t.RenderMarkdown() })
}

// Text renders the same report with box-drawn tables for terminals.
func (r *Result) Text(name string) string {
	return r.render(name, func(t table.Writer) string {
		t.SetStyle(table.StyleLight)
		return t.Render()
	})
}

func (r *Result) render(name string, draw func(table.Writer) string) string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if name != "" {
		fmt.Fprintf(&b, "File: %s\n", name)
	}
	fmt.Fprintf(&b, "Rows: %d\n", r.RowCount)
	fmt.Fprintf(&b, "Columns: %d\n", r.ColumnCount)
	if r.ColumnCount == 0 {
		return b.String()
	}

	b.WriteString("\n[SCHEMA]\n")
	for _, c := range r.ColumnNames {
		fmt.Fprintf(&b, "- %s: %s\n", safeName(c), r.DataTypes[c])
	}

	if len(r.NumericStats) > 0 {
		b.WriteString("\n[NUMERIC STATISTICS]\n")
		t := table.NewWriter()
		t.AppendHeader(table.Row{"column", "count", "mean", "min", "q1", "median", "q3", "max", "sum"})
		for _, c := range r.ColumnNames {
			s, ok := r.NumericStats[c]
			if !ok {
				continue
			}
			t.AppendRow(table.Row{safeVal(safeName(c)), s.Count, num(s.Mean), num(s.Min), num(s.Q1), num(s.Median), num(s.Q3), num(s.Max), num(s.Sum)})
		}
		b.WriteString(draw(t))
		b.WriteString("\n")
	}

	if len(r.Preview) > 0 {
		b.WriteString("\n[PREVIEW]\n")
		t := table.NewWriter()
		hdr := make(table.Row, len(r.ColumnNames))
		for i, c := range r.ColumnNames {
			hdr[i] = safeVal(safeName(c))
		}
		t.AppendHeader(hdr)
		for _, row := range r.Preview {
			vals := row.Values()
			out := make(table.Row, len(vals))
			for i, v := range vals {
				s := cell(v)
				if len(s) > 80 {
					s = s[:77] + "..."
				}
				out[i] = safeVal(s)
			}
			t.AppendRow(out)
		}
		b.WriteString(draw(t))
		b.WriteString("\n")
	}
	return b.String()
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func num(x float64) string { return fmt.Sprintf("%.4g", x) }

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
