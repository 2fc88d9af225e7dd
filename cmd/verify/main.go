// Package main provides the verify command-line tool, which checks that the
// files recorded in a sedaplus manifest have not changed since the run.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"sedaplus/internal/logger"
	"sedaplus/pkg/metadata"
)

func main() {
	manifestPath := flag.String("manifest", "", "Path to a manifest written by sedaplus -manifest")
	flag.Parse()

	if *manifestPath == "" {
		fmt.Println("Usage: verify -manifest <manifest.json>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := verify(*manifestPath, os.Stdout, logger.NewLogger("info")); err != nil {
		os.Exit(1)
	}
}

func verify(path string, out io.Writer, log *logger.Logger) error {
	m, err := metadata.ReadManifest(path)
	if err != nil {
		log.Error("failed to read manifest", "path", path, "error", err)
		return err
	}

	fmt.Fprintf(out, "Run: %s\n", m.RunID)

	verr := m.Verify()
	failed := metadata.FailedFiles(verr)

	for _, d := range m.Files() {
		if err, bad := failed[d.Path]; bad {
			fmt.Fprintf(out, "FAIL %s\n", d.Path)
			log.Error("verification failed", "path", d.Path, "error", err)

			continue
		}

		fmt.Fprintf(out, "OK   %s\n", d.Path)
	}

	if verr != nil {
		return fmt.Errorf("%d of %d files failed verification: %w", len(failed), len(m.Files()), verr)
	}

	return nil
}
