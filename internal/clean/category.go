package clean

import (
	"sedaplus/internal/config"
	"sedaplus/internal/table"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ExcludeCategories removes every row matching at least one rule. A rule
// matches when the cell equals one of its values; numbers compare by their
// shortest text, so the rule value "1" matches a cell read as "1.0".
func ExcludeCategories(t *table.Table, rules []config.ExclusionRule) (*table.Table, error) {
	filters := make([]dataframe.F, len(rules))

	for i, rule := range rules {
		col, ok := t.Lookup(rule.Column)
		if !ok {
			return nil, wrapUnknown(rule.Column)
		}

		values := make(map[string]bool, len(rule.Values))
		for _, v := range rule.Values {
			values[v] = true
		}

		filters[i] = keepWhere(col.Name, func(el series.Element) bool {
			return !matches(table.ValueOf(el, col.Numeric), values)
		})
	}

	return t.Where(dataframe.And, filters...)
}

func matches(v table.Value, values map[string]bool) bool {
	switch v.Kind() {
	case table.KindNumber:
		return values[v.Key()] || values[v.Text()]
	case table.KindString:
		return values[v.Text()]
	default:
		return false
	}
}
