package zipdir

import (
	"fmt"
	"path/filepath"
	"strings"
)

// NormalizeEntryName converts file into an archive entry name relative to
// baseDir, using '/' as the separator on every platform.
//
// Both paths are cleaned before comparison. file must be baseDir or one of
// its descendants; anything else returns an error wrapping ErrInvalidPath.
// When file equals baseDir the result is ".".
//
//	NormalizeEntryName("/root/proj", "/root/proj/a/b.txt") // "a/b.txt"
func NormalizeEntryName(baseDir, file string) (string, error) {
	rel, err := filepath.Rel(baseDir, file)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidPath, file, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s is not under %s", ErrInvalidPath, file, baseDir)
	}
	return filepath.ToSlash(rel), nil
}
