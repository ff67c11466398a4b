package analysis

import (
	"math"
	"sort"
)

// NumericStats summarizes the numeric values of one column.
type NumericStats struct {
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Sum    float64 `json:"sum" yaml:"sum"`
	Median float64 `json:"median" yaml:"median"`
	Q1     float64 `json:"q1" yaml:"q1"`
	Q3     float64 `json:"q3" yaml:"q3"`
}

// ComputeNumericStats returns statistics for every column holding at least one
// finite number. Values that do not parse are dropped silently; a column with
// no numeric values has no entry at all.
func ComputeNumericStats(rows []Row, columns []string) map[string]NumericStats {
	vals := make([][]float64, len(columns))
	for _, r := range rows {
		for j, col := range columns {
			v, _ := r.Get(col)
			if x, ok := toFloat(v); ok {
				vals[j] = append(vals[j], x)
			}
		}
	}
	out := make(map[string]NumericStats, len(columns))
	for j, col := range columns {
		if len(vals[j]) == 0 {
			continue
		}
		if _, dup := out[col]; dup {
			continue
		}
		out[col] = summarize(vals[j])
	}
	return out
}

// summarize sorts vals in place. When the plain total overflows, the mean is
// recomputed incrementally so it stays finite, and Sum saturates at
// ±math.MaxFloat64.
func summarize(vals []float64) NumericStats {
	sort.Float64s(vals)
	n := len(vals)
	s := NumericStats{Count: n, Min: vals[0], Max: vals[n-1]}
	for _, x := range vals {
		s.Sum += x
	}
	if math.IsInf(s.Sum, 0) {
		s.Mean = runningMean(vals)
		s.Sum = clampFinite(s.Mean * float64(n))
	} else {
		s.Mean = s.Sum / float64(n)
	}
	s.Median = nearestRank(vals, 0.5)
	s.Q1 = nearestRank(vals, 0.25)
	s.Q3 = nearestRank(vals, 0.75)
	return s
}

func runningMean(vals []float64) float64 {
	var m float64
	for i, x := range vals {
		k := float64(i + 1)
		m += x/k - m/k
	}
	return m
}

func clampFinite(x float64) float64 {
	switch {
	case math.IsInf(x, 1):
		return math.MaxFloat64
	case math.IsInf(x, -1):
		return -math.MaxFloat64
	}
	return x
}

// nearestRank returns sorted[floor(n*q)] with no interpolation and no averaging
// for even n. This is not a conventional quantile; output compatibility
// depends on it staying exactly this rule.
func nearestRank(sorted []float64, q float64) float64 {
	i := int(float64(len(sorted)) * q)
	if i >= len(sorted) {
		i = len(sorted) - 1
	}
	return sorted[i]
}
