// Package normalizer harmonizes column names across source tables so that
// every table exposes the same join key.
package normalizer

import (
	"fmt"

	"sedaplus/internal/config"
	"sedaplus/internal/table"
)

// Processor renames a table's columns and checks the result.
type Processor struct {
	validator   *Validator
	transformer *Transformer
}

// NewProcessor creates a new processor for tables joined on key.
func NewProcessor(key string) *Processor {
	return &Processor{
		validator:   NewValidator(key),
		transformer: NewTransformer(),
	}
}

// Process lowercases column names, applies the source's rename map and
// verifies the join key is present. Processing an already normalized table
// returns an equivalent table.
func (p *Processor) Process(t *table.Table, src config.SourceConfig) (*table.Table, error) {
	normalized, err := p.transformer.Transform(t, src.Rename)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", src.Name, err)
	}

	if err := p.validator.Validate(normalized); err != nil {
		return nil, fmt.Errorf("normalize %s: %w", src.Name, err)
	}

	return normalized, nil
}
