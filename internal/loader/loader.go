// Package loader reads source tables from delimited text or xlsx workbooks
// and projects them to their configured columns.
package loader

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"sedaplus/internal/config"
	"sedaplus/internal/table"
	"sedaplus/pkg/utils"

	"github.com/xuri/excelize/v2"
)

// Load errors.
var (
	ErrMissingColumn     = errors.New("required column not found")
	ErrDuplicateHeader   = errors.New("duplicate header")
	ErrEmptyInput        = errors.New("input has no header row")
	ErrRaggedRow         = errors.New("row has the wrong number of fields")
	ErrUnsupportedFormat = errors.New("unsupported input format")
	ErrNoSheet           = errors.New("workbook has no such sheet")
)

// Loader reads and projects source tables.
type Loader struct {
	nullTokens []string
}

// NewLoader creates a loader that reads any of nullTokens as a null cell.
// The empty cell is always null.
func NewLoader(nullTokens []string) *Loader {
	tokens := []string{""}
	for _, tok := range nullTokens {
		if !slices.Contains(tokens, tok) {
			tokens = append(tokens, tok)
		}
	}

	return &Loader{nullTokens: tokens}
}

// Load reads the file at path and projects it to src.Columns. Columns keep
// the order they have in the file.
func (l *Loader) Load(src config.SourceConfig, path string) (*table.Table, error) {
	records, err := readRecords(src, path)
	if err != nil {
		return nil, fmt.Errorf("load %s from %s: %w", src.Name, path, err)
	}

	t, err := l.project(src.Columns, records)
	if err != nil {
		return nil, fmt.Errorf("load %s from %s: %w", src.Name, path, err)
	}

	return t, nil
}

func readRecords(src config.SourceConfig, path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readWorkbook(path, src.Sheet)
	case ".csv", ".tsv", ".txt", "":
		delim := src.DelimiterRune()
		if src.Delimiter == "" && strings.EqualFold(filepath.Ext(path), ".tsv") {
			delim = '\t'
		}

		return readDelimited(path, delim)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func readDelimited(path string, delim rune) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))
	reader.Comma = delim
	reader.FieldsPerRecord = -1

	var records [][]string

	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to parse: %w", err)
		}

		records = append(records, rec)
	}

	return padRows(records, "line")
}

func readWorkbook(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoSheet
		}

		sheet = sheets[0]
	} else if !slices.Contains(f.GetSheetList(), sheet) {
		return nil, fmt.Errorf("%w: %s", ErrNoSheet, sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	// GetRows drops trailing empty cells.
	return padRows(rows, "row")
}

// padRows extends short rows with empty, and therefore null, cells up to the
// header width. A row longer than the header is an error.
func padRows(records [][]string, unit string) ([][]string, error) {
	if len(records) == 0 {
		return records, nil
	}

	width := len(records[0])
	for i, rec := range records {
		if len(rec) > width {
			return nil, fmt.Errorf("%w: %s %d has %d fields, header has %d", ErrRaggedRow, unit, i+1, len(rec), width)
		}

		for len(rec) < width {
			rec = append(rec, "")
		}

		records[i] = rec
	}

	return records, nil
}

// project keeps the wanted columns, matched case-insensitively, and infers
// each column's type.
func (l *Loader) project(wanted []string, records [][]string) (*table.Table, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	header := make([]string, len(records[0]))
	positions := make(map[string]int, len(header))

	for i, h := range records[0] {
		key := utils.HeaderKey(h)
		if _, dup := positions[key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateHeader, h)
		}

		positions[key] = i
		header[i] = utils.TrimWhitespace(utils.StripBOM(h))
	}

	var (
		missing  []string
		selected []int
	)

	for _, w := range wanted {
		pos, ok := positions[utils.HeaderKey(w)]
		if !ok {
			missing = append(missing, w)
			continue
		}

		if !slices.Contains(selected, pos) {
			selected = append(selected, pos)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	slices.Sort(selected)

	names := make([]string, len(selected))
	for i, pos := range selected {
		names[i] = header[pos]
	}

	all, err := table.Load(append([][]string{header}, records[1:]...), l.nullTokens)
	if err != nil {
		return nil, err
	}

	return all.Select(names...)
}
