// Package features appends the derived enrollment-share and minority-share
// columns to the cleaned table.
package features

import (
	"errors"
	"fmt"

	"sedaplus/internal/config"
	"sedaplus/internal/table"
)

// Derived column names.
const (
	PctMale                        = "pct_male"
	PctFemale                      = "pct_female"
	PctUnderrepresentedMinority    = "pct_underrepresented_minority"
	PctNonUnderrepresentedMinority = "pct_non_underrepresented_minority"
)

// Derivation errors.
var (
	ErrMissingColumn = errors.New("feature input column not in table")
	ErrNonNumeric    = errors.New("feature input is not numeric")
)

// Derive appends pct_male, pct_female, pct_underrepresented_minority and
// pct_non_underrepresented_minority. Each row is computed on its own.
func Derive(t *table.Table, cols config.FeaturesConfig) (*table.Table, error) {
	for _, name := range []string{cols.Male, cols.Female, cols.Native, cols.Hispanic, cols.Black, cols.White, cols.Asian} {
		if !t.Has(name) {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	steps := []struct {
		name string
		fn   func(read) (float64, error)
	}{
		{PctMale, func(r read) (float64, error) { return share(r, cols.Male, cols.Male, cols.Female) }},
		{PctFemale, func(r read) (float64, error) { return share(r, cols.Female, cols.Male, cols.Female) }},
		{PctUnderrepresentedMinority, func(r read) (float64, error) { return sum(r, cols.Native, cols.Hispanic, cols.Black) }},
		{PctNonUnderrepresentedMinority, func(r read) (float64, error) { return sum(r, cols.White, cols.Asian) }},
	}

	for _, step := range steps {
		var err error

		t, err = withNumeric(t, step.name, step.fn)
		if err != nil {
			return nil, fmt.Errorf("derive %s: %w", step.name, err)
		}
	}

	return t, nil
}

// read fetches a numeric cell of the current row by column name.
type read func(name string) (float64, error)

func withNumeric(t *table.Table, name string, fn func(read) (float64, error)) (*table.Table, error) {
	values := make([]float64, t.Len())

	for i := range values {
		f, err := fn(reader(t, t.Row(i)))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		values[i] = f
	}

	return t.WithNumbers(name, values)
}

func reader(t *table.Table, row table.Row) read {
	return func(name string) (float64, error) {
		pos, ok := t.Index(name)
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}

		f, ok := row[pos].Float()
		if !ok {
			return 0, fmt.Errorf("%w: %s=%q", ErrNonNumeric, name, row[pos].Text())
		}

		return f, nil
	}
}

// share returns part/(a+b), or 0 when a+b is not positive.
func share(r read, part, a, b string) (float64, error) {
	pv, err := r(part)
	if err != nil {
		return 0, err
	}

	av, err := r(a)
	if err != nil {
		return 0, err
	}

	bv, err := r(b)
	if err != nil {
		return 0, err
	}

	total := av + bv
	if total <= 0 {
		return 0, nil
	}

	return pv / total, nil
}

func sum(r read, names ...string) (float64, error) {
	var total float64

	for _, n := range names {
		v, err := r(n)
		if err != nil {
			return 0, err
		}

		total += v
	}

	return total, nil
}
