// Package summary computes a per-column descriptive profile of a table.
package summary

import (
	"math"
	"slices"
	"strconv"

	"sedaplus/internal/stats"
	"sedaplus/internal/table"
	"sedaplus/pkg/utils"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Column describes one column of a table.
type Column struct {
	Name      string
	Kind      string // "numeric" or "categorical"
	Nulls     int
	Sentinels int

	// Numeric columns.
	Count int
	Mean  float64
	Std   float64
	Min   float64
	P25   float64
	P50   float64
	P75   float64
	Max   float64

	// Categorical columns.
	Distinct int
	Top      string
	TopCount int
}

// Kinds.
const (
	KindNumeric     = "numeric"
	KindCategorical = "categorical"
)

// Profile describes every column of t. Strings listed in sentinels are
// counted separately from nulls. Std is the sample standard deviation and is
// NaN for fewer than two values; the numeric statistics are NaN for a column
// with no values.
func Profile(t *table.Table, sentinels []string) []Column {
	out := make([]Column, 0, t.Width())

	for _, col := range t.Columns() {
		p := Column{Name: col.Name, Kind: KindCategorical}
		if col.Numeric {
			p.Kind = KindNumeric
		}

		var (
			values []float64
			counts = map[string]int{}
		)

		cells, _ := t.Column(col.Name)

		for _, v := range cells {
			switch {
			case v.IsNull():
				p.Nulls++
				continue
			case v.Kind() == table.KindString && slices.Contains(sentinels, v.Key()):
				p.Sentinels++
			}

			if col.Numeric {
				if f, ok := v.Float(); ok {
					values = append(values, f)
				}

				continue
			}

			counts[v.Text()]++
		}

		if col.Numeric {
			describe(&p, values)
		} else {
			p.Distinct = len(counts)
			p.Top, p.TopCount = mode(counts)
		}

		out = append(out, p)
	}

	return out
}

func describe(p *Column, values []float64) {
	p.Count = len(values)

	if len(values) == 0 {
		nan := math.NaN()
		p.Mean, p.Std, p.Min, p.P25, p.P50, p.P75, p.Max = nan, nan, nan, nan, nan, nan, nan

		return
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	p.Mean = stat.Mean(values, nil)
	p.Std = math.NaN()

	if len(values) > 1 {
		p.Std = stat.StdDev(values, nil)
	}

	p.Min = floats.Min(values)
	p.Max = floats.Max(values)
	p.P25 = stats.QuantileSorted(sorted, 0.25)
	p.P50 = stats.QuantileSorted(sorted, 0.50)
	p.P75 = stats.QuantileSorted(sorted, 0.75)
}

// mode returns the most frequent value, breaking ties by the smaller string.
func mode(counts map[string]int) (string, int) {
	var (
		top  string
		best int
	)

	for v, n := range counts {
		if n > best || (n == best && v < top) {
			top, best = v, n
		}
	}

	return top, best
}

// maxTopWidth caps the top value cell of a rendered row.
const maxTopWidth = 32

// Headers of the rows produced by Rows.
var Headers = []string{
	"column", "kind", "nulls", "missing", "count", "mean", "std",
	"min", "25%", "50%", "75%", "max", "distinct", "top",
}

// Rows renders profiles as string cells in Headers order. Cells that do not
// apply to a column's kind are left empty.
func Rows(profiles []Column) [][]string {
	rows := make([][]string, 0, len(profiles))

	for _, p := range profiles {
		row := []string{p.Name, p.Kind, strconv.Itoa(p.Nulls), strconv.Itoa(p.Sentinels)}

		if p.Kind == KindNumeric {
			row = append(row,
				strconv.Itoa(p.Count), num(p.Mean), num(p.Std),
				num(p.Min), num(p.P25), num(p.P50), num(p.P75), num(p.Max),
				"", "")
		} else {
			row = append(row, "", "", "", "", "", "", "", "",
				strconv.Itoa(p.Distinct), utils.TruncateString(p.Top, maxTopWidth))
		}

		rows = append(rows, row)
	}

	return rows
}

func num(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}

	return strconv.FormatFloat(f, 'g', 6, 64)
}
