package analysis

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Type is the semantic type inferred for a column.
type Type string

const (
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeDate    Type = "date"
	TypeString  Type = "string"
	TypeUnknown Type = "unknown"
)

// InferTypes assigns one Type per column from the first row's value only.
// A column whose first value is atypical (blank, an outlier format) is
// classified from that value anyway; later rows are never consulted.
func InferTypes(rows []Row, columns []string) map[string]Type {
	out := make(map[string]Type, len(columns))
	for _, col := range columns {
		var sample any
		if len(rows) > 0 {
			sample, _ = rows[0].Get(col)
		}
		out[col] = inferValue(sample)
	}
	return out
}

// inferValue applies, first match wins: absent, number, boolean, date, string.
func inferValue(v any) Type {
	if v == nil {
		return TypeUnknown
	}
	if _, ok := toFloat(v); ok {
		return TypeNumber
	}
	switch x := v.(type) {
	case bool:
		return TypeBoolean
	case string:
		if strings.EqualFold(x, "true") || strings.EqualFold(x, "false") {
			return TypeBoolean
		}
		if _, ok := parseTimeMaybe(x); ok {
			return TypeDate
		}
	case time.Time:
		return TypeDate
	}
	return TypeString
}

// toFloat coerces a raw cell to a finite float64. Booleans are not numbers.
func toFloat(v any) (float64, bool) {
	var x float64
	switch t := v.(type) {
	case float64:
		x = t
	case float32:
		x = float64(t)
	case int:
		x = float64(t)
	case int64:
		x = float64(t)
	case string:
		return parseFinite(t)
	default:
		return 0, false
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	return x, true
}

// parseFinite accepts what strconv.ParseFloat accepts, minus NaN and infinities.
func parseFinite(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

var dateLayouts = []string{
	time.RFC3339Nano, time.RFC3339,
	"2006-01-02", "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02 15:04",
	"2006/01/02", "2006/01/02 15:04:05",
	"01/02/2006", "1/2/2006", "01/02/2006 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
	time.RFC1123, time.RFC1123Z, time.RFC822, time.RFC822Z, time.RFC850,
	time.ANSIC, time.UnixDate,
	"Jan 2, 2006", "January 2, 2006", "Jan 2 2006", "2 Jan 2006", "02 Jan 2006", "2 January 2006",
	"Mon Jan 2 2006", "Mon, 2 Jan 2006",
}

func parseTimeMaybe(s string) (time.Time, bool) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
