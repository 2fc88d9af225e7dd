package normalizer

import (
	"strings"

	"sedaplus/internal/table"
	"sedaplus/pkg/utils"
)

// Transformer rewrites column names.
type Transformer struct{}

// NewTransformer creates a new transformer instance.
func NewTransformer() *Transformer {
	return &Transformer{}
}

// Transform folds every column name to lowercase and then renames it through
// rename. Rename keys are matched lowercase.
func (t *Transformer) Transform(tbl *table.Table, rename map[string]string) (*table.Table, error) {
	lookup := make(map[string]string, len(rename))
	for from, to := range rename {
		lookup[utils.HeaderKey(from)] = to
	}

	mapping := make(map[string]string, tbl.Width())

	for _, name := range tbl.ColumnNames() {
		if to, ok := lookup[utils.HeaderKey(name)]; ok {
			mapping[name] = to
			continue
		}

		mapping[name] = strings.ToLower(utils.TrimWhitespace(name))
	}

	return tbl.Rename(mapping)
}
