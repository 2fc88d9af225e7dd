// Package writer persists the final table as a flat delimited file.
package writer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"sedaplus/internal/table"
)

// Options configures CSV writing behavior.
type Options struct {
	Delimiter rune
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes the header and every row of t to path. No index column is
// written. The file is assembled next to path and renamed into place, so a
// failure leaves any previous file untouched and no partial output behind.
func WriteCSV(path string, t *table.Table, opts Options) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	buf := bufio.NewWriter(tmp)

	if opts.BOMPrefix {
		if _, err := buf.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	w := csv.NewWriter(buf)
	if opts.Delimiter != 0 {
		w.Comma = opts.Delimiter
	}

	// The first record is the header.
	for i, record := range t.Records() {
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush records: %w", err)
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	return nil
}
