// Package clean holds the row filters applied to the joined table: missing
// data, grade-range sentinels, excluded school categories and percentile
// outliers.
package clean

import (
	"errors"
	"fmt"
	"strings"

	"sedaplus/internal/table"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ErrUnknownColumn is returned when a filter names a column the table lacks.
var ErrUnknownColumn = errors.New("filter column not in table")

// DropMissing removes every row holding a null or empty string in any
// column. Sentinel strings such as "Missing" are ordinary values here and
// pass through.
func DropMissing(t *table.Table) (*table.Table, error) {
	present := func(el series.Element) bool {
		return !el.IsNA() && el.String() != ""
	}

	filters := make([]dataframe.F, t.Width())
	for i, name := range t.ColumnNames() {
		filters[i] = keepWhere(name, present)
	}

	return t.Where(dataframe.And, filters...)
}

// DropSentinel removes rows where any of columns holds sentinel. Cells are
// compared with surrounding whitespace trimmed, so "N " matches "N".
func DropSentinel(t *table.Table, columns []string, sentinel string) (*table.Table, error) {
	want := strings.TrimSpace(sentinel)
	other := func(el series.Element) bool {
		return el.IsNA() || strings.TrimSpace(el.String()) != want
	}

	filters := make([]dataframe.F, len(columns))

	for i, c := range columns {
		if !t.Has(c) {
			return nil, wrapUnknown(c)
		}

		filters[i] = keepWhere(c, other)
	}

	return t.Where(dataframe.And, filters...)
}

// keepWhere builds a filter keeping the rows whose cell in column satisfies
// keep.
func keepWhere(column string, keep func(series.Element) bool) dataframe.F {
	return dataframe.F{Colname: column, Comparator: series.CompFunc, Comparando: keep}
}

func wrapUnknown(column string) error {
	return fmt.Errorf("%w: %s", ErrUnknownColumn, column)
}
