package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Table errors.
var (
	ErrUnknownColumn   = errors.New("unknown column")
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrRowWidth        = errors.New("row width does not match column count")
	ErrNoColumns       = errors.New("table has no columns")
	ErrFrame           = errors.New("dataframe operation failed")
)

// naText is the cell text gota reads as a missing element.
const naText = "NaN"

// Column describes one column of a Table.
type Column struct {
	Name    string
	Numeric bool
}

// Row is one record, positionally aligned with the table columns.
type Row []Value

// Table wraps a gota DataFrame. Every column is held as a string series
// carrying the cell text exactly as read, so numbers keep their source
// formatting. Null cells are the series' NaN elements, which means the text
// NaN always reads as null. Which columns are numeric is tracked next to the
// frame. A Table is never modified after construction; every operation
// returns a new Table.
type Table struct {
	df      dataframe.DataFrame
	index   map[string]int
	columns []Column
}

// New builds a table from columns and rows.
func New(columns []Column, rows []Row) (*Table, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}

	if err := checkNames(names(columns)); err != nil {
		return nil, err
	}

	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrRowWidth, i, len(r), len(columns))
		}
	}

	cols := make([]series.Series, len(columns))

	for c, col := range columns {
		texts := make([]string, len(rows))
		for r, row := range rows {
			texts[r] = cellText(row[c])
		}

		cols[c] = series.New(texts, series.String, col.Name)
	}

	return wrap(dataframe.New(cols...), columns)
}

// Load builds a table from records whose first row is the header. Cells equal
// to one of nullTokens are null. A column is numeric when every non-null cell
// parses as a number and at least one does.
func Load(records [][]string, nullTokens []string) (*Table, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, ErrNoColumns
	}

	header := records[0]
	if err := checkNames(header); err != nil {
		return nil, err
	}

	var df dataframe.DataFrame

	if len(records) == 1 {
		// LoadRecords refuses a header without data rows.
		cols := make([]series.Series, len(header))
		for i, name := range header {
			cols[i] = series.New([]string{}, series.String, name)
		}

		df = dataframe.New(cols...)
	} else {
		df = dataframe.LoadRecords(records,
			dataframe.DetectTypes(false),
			dataframe.DefaultType(series.String),
			dataframe.NaNValues(nullTokens),
		)
	}

	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFrame, df.Err)
	}

	frameNames := df.Names()
	columns := make([]Column, len(frameNames))

	for i, name := range frameNames {
		columns[i] = Column{Name: name, Numeric: numericColumn(df, i)}
	}

	return wrap(df, columns)
}

func wrap(df dataframe.DataFrame, columns []Column) (*Table, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFrame, df.Err)
	}

	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c.Name] = i
	}

	cols := make([]Column, len(columns))
	copy(cols, columns)

	return &Table{df: df, index: index, columns: cols}, nil
}

// numericColumn reports whether every non-null cell of column c parses as a
// number, with at least one present.
func numericColumn(df dataframe.DataFrame, c int) bool {
	seen := false

	for r := 0; r < df.Nrow(); r++ {
		el := df.Elem(r, c)
		if el.IsNA() {
			continue
		}

		if _, err := strconv.ParseFloat(strings.TrimSpace(el.String()), 64); err != nil {
			return false
		}

		seen = true
	}

	return seen
}

func checkNames(names []string) error {
	seen := make(map[string]bool, len(names))

	for _, n := range names {
		if seen[n] {
			return fmt.Errorf("%w: %s", ErrDuplicateColumn, n)
		}

		seen[n] = true
	}

	return nil
}

func names(columns []Column) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.Name
	}

	return out
}

func cellText(v Value) string {
	if v.IsNull() {
		return naText
	}

	return v.Text()
}

// ValueOf converts a frame element to a Value. Elements of numeric columns
// become numbers that keep their trimmed source text.
func ValueOf(el series.Element, numeric bool) Value {
	if el.IsNA() {
		return Null()
	}

	text := el.String()
	if numeric {
		trimmed := strings.TrimSpace(text)
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return NumberText(f, trimmed)
		}
	}

	return String(text)
}

// Columns returns a copy of the column descriptors.
func (t *Table) Columns() []Column {
	cols := make([]Column, len(t.columns))
	copy(cols, t.columns)

	return cols
}

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	return names(t.columns)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.df.Nrow()
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.columns)
}

// Index returns the position of the named column.
func (t *Table) Index(name string) (int, bool) {
	i, ok := t.index[name]

	return i, ok
}

// Has reports whether the table has the named column.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]

	return ok
}

// Lookup returns the descriptor of the named column.
func (t *Table) Lookup(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}

	return t.columns[i], true
}

// Row returns row i as values.
func (t *Table) Row(i int) Row {
	row := make(Row, len(t.columns))
	for c, col := range t.columns {
		row[c] = ValueOf(t.df.Elem(i, c), col.Numeric)
	}

	return row
}

// Value returns the cell at row i in the named column.
func (t *Table) Value(i int, name string) (Value, error) {
	c, ok := t.index[name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}

	return ValueOf(t.df.Elem(i, c), t.columns[c].Numeric), nil
}

// Column returns all values of the named column in row order.
func (t *Table) Column(name string) ([]Value, error) {
	c, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}

	out := make([]Value, t.df.Nrow())
	for i := range out {
		out[i] = ValueOf(t.df.Elem(i, c), t.columns[c].Numeric)
	}

	return out, nil
}

// Where keeps the rows selected by filters, combined with agg. Filters using
// series.CompFunc receive the raw string elements; use ValueOf to read them.
// No filters keeps every row.
func (t *Table) Where(agg dataframe.Aggregation, filters ...dataframe.F) (*Table, error) {
	for _, f := range filters {
		if f.Colname != "" && !t.Has(f.Colname) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, f.Colname)
		}
	}

	return wrap(t.df.FilterAggregation(agg, filters...), t.columns)
}

// Subset returns the rows at the given positions, in that order. Positions
// may repeat.
func (t *Table) Subset(rows []int) (*Table, error) {
	return wrap(t.df.Subset(rows), t.columns)
}

// Select returns a table with only the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	if len(names) == 0 {
		return nil, ErrNoColumns
	}

	cols := make([]Column, len(names))

	for i, n := range names {
		c, ok := t.index[n]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, n)
		}

		cols[i] = t.columns[c]
	}

	if err := checkNames(names); err != nil {
		return nil, err
	}

	return wrap(t.df.Select(names), cols)
}

// Rename returns a table whose columns are renamed through mapping. Names not
// in mapping are kept.
func (t *Table) Rename(mapping map[string]string) (*Table, error) {
	cols := t.Columns()
	for i := range cols {
		if to, ok := mapping[cols[i].Name]; ok {
			cols[i].Name = to
		}
	}

	newNames := names(cols)
	if err := checkNames(newNames); err != nil {
		return nil, err
	}

	df := t.df.Copy()
	if err := df.SetNames(newNames...); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFrame, err)
	}

	return wrap(df, cols)
}

// CBind places the columns of other to the right of t. Both tables must have
// the same number of rows and no column name in common.
func (t *Table) CBind(other *Table) (*Table, error) {
	if t.Len() != other.Len() {
		return nil, fmt.Errorf("%w: %d rows beside %d", ErrRowWidth, t.Len(), other.Len())
	}

	cols := append(t.Columns(), other.columns...)
	if err := checkNames(names(cols)); err != nil {
		return nil, err
	}

	return wrap(t.df.CBind(other.df), cols)
}

// WithNumbers returns a table with a numeric column appended.
func (t *Table) WithNumbers(name string, values []float64) (*Table, error) {
	if t.Has(name) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, name)
	}

	if len(values) != t.Len() {
		return nil, fmt.Errorf("%w: %d values for %d rows", ErrRowWidth, len(values), t.Len())
	}

	texts := make([]string, len(values))
	for i, f := range values {
		texts[i] = FormatFloat(f)
	}

	cols := append(t.Columns(), Column{Name: name, Numeric: true})

	return wrap(t.df.Mutate(series.New(texts, series.String, name)), cols)
}

// Records returns the header followed by every row as output text. Nulls
// render empty.
func (t *Table) Records() [][]string {
	records := make([][]string, 0, t.Len()+1)
	records = append(records, t.ColumnNames())

	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		rec := make([]string, len(row))

		for j, v := range row {
			rec[j] = v.Text()
		}

		records = append(records, rec)
	}

	return records
}

// String renders a short description such as "table[3 cols x 10 rows: a,b,c]".
func (t *Table) String() string {
	return fmt.Sprintf("table[%d cols x %d rows: %s]", len(t.columns), t.Len(), strings.Join(t.ColumnNames(), ","))
}
