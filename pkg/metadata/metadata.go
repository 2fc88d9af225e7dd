// Package metadata fingerprints the files a run reads and writes.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// ErrHashMismatch is returned by Verify when a file changed since it was
// fingerprinted.
var ErrHashMismatch = errors.New("hash mismatch")

// Digest identifies the content of one file.
type Digest struct {
	Path       string    `json:"path"`
	Hash       string    `json:"sha256"`
	Size       int64     `json:"size"`
	LastModify time.Time `json:"last_modify"`
}

// CalculateHash computes the hex SHA-256 of r.
func CalculateHash(r io.Reader) (string, int64, error) {
	hash := sha256.New()

	n, err := io.Copy(hash, r)
	if err != nil {
		return "", n, err
	}

	return hex.EncodeToString(hash.Sum(nil)), n, nil
}

// FileDigest fingerprints the file at path.
func FileDigest(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Digest{}, err
	}

	hash, size, err := CalculateHash(file)
	if err != nil {
		return Digest{}, fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return Digest{
		Path:       path,
		Hash:       hash,
		Size:       size,
		LastModify: info.ModTime().UTC(),
	}, nil
}

// Verify checks that the file at d.Path still matches d.Hash.
func Verify(d Digest) error {
	current, err := FileDigest(d.Path)
	if err != nil {
		return err
	}

	if current.Hash != d.Hash {
		return fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, d.Hash, current.Hash)
	}

	return nil
}
