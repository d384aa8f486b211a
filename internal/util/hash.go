package util

import (
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// HashSize is the fixed width of a content hash. The catalog's hash column
// is a plain BLOB; the loader skips rows whose hash is not this long.
const HashSize = 32

// HashFile returns the BLAKE3 content hash of the file at path.
func HashFile(path string) ([HashSize]byte, error) {
	var out [HashSize]byte

	f, err := os.Open(path)
	if err != nil {
		return out, fmt.Errorf("open for hashing: %w", err)
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return out, fmt.Errorf("hash file: %w", err)
	}

	sum := h.Sum(nil)
	copy(out[:], sum)
	return out, nil
}

// FileSize returns the size in bytes of the file at path, or 0 if it
// cannot be stat'd.
func FileSize(path string) uint64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return uint64(info.Size())
}

// PathExists reports whether path can be stat'd. Used by the classifier
// to tell whether a file that used to live at a hash-matched path has
// since been removed (Moved) or still exists elsewhere (a duplicate).
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
