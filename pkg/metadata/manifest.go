package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Manifest records the digests of one run's inputs and output.
type Manifest struct {
	RunID  string   `json:"run_id"`
	Inputs []Digest `json:"inputs"`
	Output Digest   `json:"output"`
}

// WriteManifest writes m as indented JSON to path.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest

	data, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}

	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return m, nil
}

// FileError reports one manifest file that failed verification.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Files returns the recorded digests, inputs first and the output last.
func (m Manifest) Files() []Digest {
	return append(append([]Digest{}, m.Inputs...), m.Output)
}

// Verify checks every file in the manifest and joins the failures, one
// *FileError per file.
func (m Manifest) Verify() error {
	var errs []error

	for _, d := range m.Files() {
		if err := Verify(d); err != nil {
			errs = append(errs, &FileError{Path: d.Path, Err: err})
		}
	}

	return errors.Join(errs...)
}

// FailedFiles collects the *FileError values held by an error returned from
// Manifest.Verify, keyed by path.
func FailedFiles(err error) map[string]error {
	failed := make(map[string]error)

	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else if err != nil {
		errs = []error{err}
	}

	for _, e := range errs {
		var fe *FileError
		if errors.As(e, &fe) {
			failed[fe.Path] = fe.Err
		}
	}

	return failed
}
