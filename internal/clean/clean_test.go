package clean

import (
	"testing"

	"sedaplus/internal/config"
	"sedaplus/internal/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type col struct {
	name    string
	numeric bool
}

func build(t *testing.T, cols []col, rows ...[]table.Value) *table.Table {
	t.Helper()

	tc := make([]table.Column, len(cols))
	for i, c := range cols {
		tc[i] = table.Column{Name: c.name, Numeric: c.numeric}
	}

	tr := make([]table.Row, len(rows))
	for i, r := range rows {
		tr[i] = r
	}

	tbl, err := table.New(tc, tr)
	require.NoError(t, err)

	return tbl
}

func num(f float64) table.Value {
	return table.Number(f)
}

func str(s string) table.Value {
	return table.String(s)
}

func ids(t *testing.T, tbl *table.Table, key string) []string {
	t.Helper()

	vals, err := tbl.Column(key)
	require.NoError(t, err)

	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.Text()
	}

	return out
}

func TestDropMissing(t *testing.T) {
	tbl := build(t,
		[]col{{"school_id", true}, {"avg_score", true}, {"is_virtual", false}},
		[]table.Value{num(1), num(0.2), str("Not a virtual school")},
		[]table.Value{num(2), table.Null(), str("Not a virtual school")},
		[]table.Value{num(3), num(0.1), str("Missing")},
		[]table.Value{num(4), num(0.4), table.Null()},
		[]table.Value{num(5), num(0.5), str("")},
	)

	out, err := DropMissing(tbl)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "3"}, ids(t, out, "school_id"))
	assert.Equal(t, 5, tbl.Len(), "input table is untouched")

	for i := 0; i < out.Len(); i++ {
		for _, v := range out.Row(i) {
			assert.False(t, v.IsNull())
		}
	}
}

func TestDropSentinel(t *testing.T) {
	tbl := build(t,
		[]col{{"school_id", true}, {"grade_low", false}, {"grade_high", false}},
		[]table.Value{num(1), str("KG"), str("05")},
		[]table.Value{num(2), str("N "), str("05")},
		[]table.Value{num(3), str("KG"), str("N")},
		[]table.Value{num(4), str("NA"), str("08")},
	)

	out, err := DropSentinel(tbl, []string{"grade_low", "grade_high"}, "N")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "4"}, ids(t, out, "school_id"))

	_, err = DropSentinel(tbl, []string{"grade_mid"}, "N")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestExcludeCategories(t *testing.T) {
	cols := []col{
		{"school_id", true}, {"school_type", false}, {"school_level", false},
		{"is_charter", true}, {"is_magnet", true}, {"is_virtual", false},
	}

	tbl := build(t, cols,
		[]table.Value{num(1), str("Regular School"), str("Elementary"), num(0), num(0), str("Not a virtual school")},
		[]table.Value{num(2), str("Regular School"), str("Elementary"), table.NumberText(1, "1.0"), num(0), str("Not a virtual school")},
		[]table.Value{num(3), str("Vocational School"), str("High"), num(0), num(0), str("Not a virtual school")},
		[]table.Value{num(4), str("Regular School"), str("Other"), num(0), num(0), str("Not a virtual school")},
		[]table.Value{num(5), str("Regular School"), str("Middle"), num(0), num(1), str("Not a virtual school")},
		[]table.Value{num(6), str("Regular School"), str("Middle"), num(0), num(0), str("Missing")},
		[]table.Value{num(7), str("Other/Alt School"), str("High"), num(0), num(0), str("A virtual school")},
		[]table.Value{num(8), str("Regular School"), str("High"), num(0), num(0), str("Not a virtual school")},
	)

	out, err := ExcludeCategories(tbl, config.DefaultConfig().Filters.Exclusions)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "8"}, ids(t, out, "school_id"))
}

func TestExcludeCategories_UnknownColumn(t *testing.T) {
	tbl := build(t, []col{{"school_id", true}})

	_, err := ExcludeCategories(tbl, []config.ExclusionRule{{Column: "is_charter", Values: []string{"1"}}})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestTrimOutliers_RemovesEveryRowSharingAnOutlierValue(t *testing.T) {
	tbl := build(t,
		[]col{{"school_id", true}, {"v", true}},
		[]table.Value{num(1), num(1)},
		[]table.Value{num(2), num(5)},
		[]table.Value{num(3), num(1)},
		[]table.Value{num(4), num(5)},
		[]table.Value{num(5), num(9)},
		[]table.Value{num(6), num(5)},
	)

	out, passes, err := TrimOutliers(tbl, "school_id", 0.25, 0.75)
	require.NoError(t, err)

	assert.Equal(t, []string{"2", "4", "6"}, ids(t, out, "school_id"))
	require.Len(t, passes, 1)
	assert.Equal(t, "v", passes[0].Column)
	assert.Equal(t, 2, passes[0].Values)
	assert.Equal(t, 3, passes[0].Removed)
	assert.InDelta(t, 2.0, passes[0].Lower, 1e-12)
	assert.InDelta(t, 5.0, passes[0].Upper, 1e-12)
}

func TestTrimOutliers_CascadesAcrossColumns(t *testing.T) {
	tbl := build(t,
		[]col{{"school_id", true}, {"a", true}, {"b", true}},
		[]table.Value{num(1), num(0), num(10)},
		[]table.Value{num(2), num(5), num(20)},
		[]table.Value{num(3), num(5), num(30)},
		[]table.Value{num(4), num(5), num(40)},
		[]table.Value{num(5), num(10), num(100)},
	)

	out, passes, err := TrimOutliers(tbl, "school_id", 0.25, 0.75)
	require.NoError(t, err)

	// Over the full table b's band would be [20, 40] and keep schools 2-4;
	// after a's pass drops 1 and 5 the band narrows to [25, 35].
	assert.Equal(t, []string{"3"}, ids(t, out, "school_id"))
	require.Len(t, passes, 2)
	assert.InDelta(t, 25.0, passes[1].Lower, 1e-12)
	assert.InDelta(t, 35.0, passes[1].Upper, 1e-12)
}

func TestTrimOutliers_SkipsKeyAndCategoricalColumns(t *testing.T) {
	tbl := build(t,
		[]col{{"school_id", true}, {"state", false}, {"v", true}},
		[]table.Value{num(1), str("AL"), num(3)},
		[]table.Value{num(500), str("CA"), num(3)},
		[]table.Value{num(99999), str("ZZ"), num(3)},
	)

	out, passes, err := TrimOutliers(tbl, "school_id", 0.05, 0.95)
	require.NoError(t, err)

	assert.Equal(t, 3, out.Len())
	require.Len(t, passes, 1)
	assert.Equal(t, "v", passes[0].Column)
}

func TestTrimOutliers_SecondRunIsStableOnceExtremesTie(t *testing.T) {
	values := []float64{0, 10, 10, 10, 12, 14, 16, 20, 20, 20, 100}

	rows := make([][]table.Value, len(values))
	for i, v := range values {
		rows[i] = []table.Value{num(float64(i + 1)), num(v)}
	}

	tbl := build(t, []col{{"school_id", true}, {"v", true}}, rows...)

	once, _, err := TrimOutliers(tbl, "school_id", 0.05, 0.95)
	require.NoError(t, err)
	assert.Equal(t, 9, once.Len())

	twice, passes, err := TrimOutliers(once, "school_id", 0.05, 0.95)
	require.NoError(t, err)
	assert.Equal(t, once.Len(), twice.Len())
	assert.Equal(t, 0, passes[0].Removed)
}

func TestTrimOutliers_InvalidBand(t *testing.T) {
	tbl := build(t, []col{{"school_id", true}})

	_, _, err := TrimOutliers(tbl, "school_id", 0.9, 0.1)
	assert.Error(t, err)
}

func TestTrimOutliers_EmptyTable(t *testing.T) {
	tbl := build(t, []col{{"school_id", true}, {"v", true}})

	out, passes, err := TrimOutliers(tbl, "school_id", 0.05, 0.95)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, 0, passes[0].Removed)
}
