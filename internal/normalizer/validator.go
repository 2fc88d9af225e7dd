package normalizer

import (
	"errors"
	"fmt"

	"sedaplus/internal/table"
)

// ErrMissingKey is returned when a normalized table lacks the join key.
var ErrMissingKey = errors.New("join key column missing after normalization")

// Validator checks normalized tables.
type Validator struct {
	key string
}

// NewValidator creates a new validator instance.
func NewValidator(key string) *Validator {
	return &Validator{key: key}
}

// Validate checks that the table exposes the join key.
func (v *Validator) Validate(tbl *table.Table) error {
	if !tbl.Has(v.key) {
		return fmt.Errorf("%w: %s (columns: %v)", ErrMissingKey, v.key, tbl.ColumnNames())
	}

	return nil
}
