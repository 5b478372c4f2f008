// Package digest computes integrity checksums over produced archives.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// SumFile computes the SHA-256 digest of the file's bytes as stored on disk
// and returns it hex-encoded.
func SumFile(fs afero.Fs, path string) (sum string, err error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Line renders a checksum report in the conventional two-space-separated
// format emitted by sha256sum and friends.
func Line(sum, filename string) string {
	return fmt.Sprintf("%s  %s", sum, filename)
}
