// Package merge joins normalized source tables on the school identifier.
package merge

import (
	"errors"
	"fmt"

	"sedaplus/internal/table"
)

// Join errors.
var (
	ErrNoTables   = errors.New("no tables to join")
	ErrMissingKey = errors.New("join key column missing")
)

// Suffixes appended to non-key columns present on both sides of a join.
const (
	LeftSuffix  = "_x"
	RightSuffix = "_y"
)

// InnerJoin returns the rows of left paired with every row of right sharing
// the same key. Rows come out in left order, then right order for repeated
// keys. Null keys never match. The key column appears once.
//
// The matching row positions come from a hash index over the right keys; the
// frames are then cut with Subset and placed side by side with CBind. Keys
// compare by Value.Key, so 1 and 1.0 match.
func InnerJoin(left, right *table.Table, key string) (*table.Table, error) {
	lkeys, err := left.Column(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s on left side", ErrMissingKey, key)
	}

	rkeys, err := right.Column(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s on right side", ErrMissingKey, key)
	}

	matches := make(map[string][]int, len(rkeys))
	for j, v := range rkeys {
		if v.IsNull() {
			continue
		}

		matches[v.Key()] = append(matches[v.Key()], j)
	}

	li := make([]int, 0, len(lkeys))
	ri := make([]int, 0, len(lkeys))

	for i, v := range lkeys {
		if v.IsNull() {
			continue
		}

		for _, j := range matches[v.Key()] {
			li = append(li, i)
			ri = append(ri, j)
		}
	}

	lsub, err := left.Subset(li)
	if err != nil {
		return nil, err
	}

	rest := make([]string, 0, right.Width()-1)
	for _, name := range right.ColumnNames() {
		if name != key {
			rest = append(rest, name)
		}
	}

	if len(rest) == 0 {
		return lsub, nil
	}

	rsub, err := right.Subset(ri)
	if err != nil {
		return nil, err
	}

	if rsub, err = rsub.Select(rest...); err != nil {
		return nil, err
	}

	lnames, rnames := suffixes(left, right, key)

	if lsub, err = lsub.Rename(lnames); err != nil {
		return nil, err
	}

	if rsub, err = rsub.Rename(rnames); err != nil {
		return nil, err
	}

	return lsub.CBind(rsub)
}

// JoinAll inner-joins the tables left to right:
// ((t0 ⋈ t1) ⋈ t2) ⋈ ...
func JoinAll(key string, tables ...*table.Table) (*table.Table, error) {
	if len(tables) == 0 {
		return nil, ErrNoTables
	}

	acc := tables[0]
	if !acc.Has(key) {
		return nil, fmt.Errorf("%w: %s in table 0", ErrMissingKey, key)
	}

	for i, next := range tables[1:] {
		joined, err := InnerJoin(acc, next, key)
		if err != nil {
			return nil, fmt.Errorf("join table %d: %w", i+1, err)
		}

		acc = joined
	}

	return acc, nil
}

// suffixes returns the renames for non-key columns present on both sides.
func suffixes(left, right *table.Table, key string) (map[string]string, map[string]string) {
	lnames := make(map[string]string)
	rnames := make(map[string]string)

	for _, name := range left.ColumnNames() {
		if name != key && right.Has(name) {
			lnames[name] = name + LeftSuffix
			rnames[name] = name + RightSuffix
		}
	}

	return lnames, rnames
}
