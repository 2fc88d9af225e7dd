package summary

import (
	"math"
	"testing"

	"sedaplus/internal/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *table.Table {
	t.Helper()

	tbl, err := table.New(
		[]table.Column{{Name: "avg_score", Numeric: true}, {Name: "is_virtual"}},
		[]table.Row{
			{table.Number(1), table.String("Not a virtual school")},
			{table.Number(2), table.String("Missing")},
			{table.Number(3), table.String("Not a virtual school")},
			{table.Number(4), table.Null()},
			{table.Null(), table.String("A virtual school")},
		},
	)
	require.NoError(t, err)

	return tbl
}

func TestProfile_Numeric(t *testing.T) {
	profiles := Profile(sample(t), []string{"Missing"})
	require.Len(t, profiles, 2)

	p := profiles[0]
	assert.Equal(t, "avg_score", p.Name)
	assert.Equal(t, KindNumeric, p.Kind)
	assert.Equal(t, 1, p.Nulls)
	assert.Equal(t, 4, p.Count)
	assert.InDelta(t, 2.5, p.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3.0), p.Std, 1e-12)
	assert.Equal(t, 1.0, p.Min)
	assert.InDelta(t, 1.75, p.P25, 1e-12)
	assert.InDelta(t, 2.5, p.P50, 1e-12)
	assert.InDelta(t, 3.25, p.P75, 1e-12)
	assert.Equal(t, 4.0, p.Max)
}

func TestProfile_Categorical(t *testing.T) {
	p := Profile(sample(t), []string{"Missing"})[1]

	assert.Equal(t, KindCategorical, p.Kind)
	assert.Equal(t, 1, p.Nulls)
	assert.Equal(t, 1, p.Sentinels)
	assert.Equal(t, 3, p.Distinct, "sentinel strings are still values")
	assert.Equal(t, "Not a virtual school", p.Top)
	assert.Equal(t, 2, p.TopCount)
}

func TestProfile_EmptyNumericColumn(t *testing.T) {
	tbl, err := table.New([]table.Column{{Name: "v", Numeric: true}}, nil)
	require.NoError(t, err)

	p := Profile(tbl, nil)[0]
	assert.Equal(t, 0, p.Count)
	assert.True(t, math.IsNaN(p.Mean))
	assert.True(t, math.IsNaN(p.Max))
}

func TestRows(t *testing.T) {
	rows := Rows(Profile(sample(t), []string{"Missing"}))
	require.Len(t, rows, 2)

	for _, row := range rows {
		assert.Len(t, row, len(Headers))
	}

	assert.Equal(t, []string{"avg_score", "numeric", "1", "0", "4", "2.5"}, rows[0][:6])
	assert.Equal(t, "3", rows[1][12])
	assert.Equal(t, "Not a virtual school", rows[1][13])
}
