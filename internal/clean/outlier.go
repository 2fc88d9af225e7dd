package clean

import (
	"fmt"
	"math"
	"slices"

	"sedaplus/internal/stats"
	"sedaplus/internal/table"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// OutlierPass records what one column's pass removed.
type OutlierPass struct {
	Column  string
	Lower   float64
	Upper   float64
	Values  int
	Removed int
}

// TrimOutliers walks the numeric columns other than key in table order. For
// each column it computes the lower and upper quantiles over the table as it
// stands at that moment, collects the distinct values outside the band and
// drops every row carrying one of them in that column. Earlier passes shrink
// the table later passes see, so the result depends on column order.
func TrimOutliers(t *table.Table, key string, lower, upper float64) (*table.Table, []OutlierPass, error) {
	if lower < 0 || upper > 1 || lower >= upper {
		return nil, nil, fmt.Errorf("invalid quantile band [%v, %v]", lower, upper)
	}

	var passes []OutlierPass

	for _, col := range t.Columns() {
		if col.Name == key || !col.Numeric {
			continue
		}

		trimmed, pass, err := trimColumn(t, col.Name, lower, upper)
		if err != nil {
			return nil, nil, err
		}

		passes = append(passes, pass)
		t = trimmed
	}

	return t, passes, nil
}

func trimColumn(t *table.Table, name string, lower, upper float64) (*table.Table, OutlierPass, error) {
	pass := OutlierPass{Column: name, Lower: math.NaN(), Upper: math.NaN()}

	values, err := t.Column(name)
	if err != nil {
		return nil, pass, err
	}

	data := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := v.Float(); ok && !math.IsNaN(f) {
			data = append(data, f)
		}
	}

	if len(data) == 0 {
		return t, pass, nil
	}

	slices.Sort(data)
	pass.Lower = stats.QuantileSorted(data, lower)
	pass.Upper = stats.QuantileSorted(data, upper)

	outliers := make(map[float64]bool)
	for _, f := range data {
		if f < pass.Lower || f > pass.Upper {
			outliers[f] = true
		}
	}

	pass.Values = len(outliers)
	if len(outliers) == 0 {
		return t, pass, nil
	}

	trimmed, err := t.Where(dataframe.And, keepWhere(name, func(el series.Element) bool {
		f, ok := table.ValueOf(el, true).Float()

		return !ok || !outliers[f]
	}))
	if err != nil {
		return nil, pass, err
	}

	pass.Removed = t.Len() - trimmed.Len()

	return trimmed, pass, nil
}
