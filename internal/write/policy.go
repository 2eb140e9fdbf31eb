// Package write holds the per-entry decisions shared by the archive builder:
// which storage method an entry uses and whether its source changed while
// being read.
package write

import (
	"io/fs"
	"path"
	"strings"
)

// StoreFunc returns true when an entry should be stored without compression.
// It is called once per file with the normalized entry name and should be
// inexpensive.
type StoreFunc func(name string, info fs.FileInfo) bool

// Prefix stores entries whose normalized name starts with prefix.
//
// The test is a plain string prefix, not a path-segment match: with prefix
// "assets", both "assets/a.png" and "assetsfoo.png" are stored.
func Prefix(prefix string) StoreFunc {
	return func(name string, _ fs.FileInfo) bool {
		return strings.HasPrefix(name, prefix)
	}
}

// CompressedFormats stores entries with extensions that are already
// compressed, where deflate only costs time.
func CompressedFormats() StoreFunc {
	return func(name string, _ fs.FileInfo) bool {
		_, ok := compressedExts[strings.ToLower(path.Ext(name))]
		return ok
	}
}

// ShouldStore reports whether any predicate selects STORED for the entry.
func ShouldStore(name string, info fs.FileInfo, predicates []StoreFunc) bool {
	for _, fn := range predicates {
		if fn == nil {
			continue
		}
		if fn(name, info) {
			return true
		}
	}
	return false
}

// compressedExts mirrors the list of formats that are already compressed.
var compressedExts = map[string]struct{}{
	".7z":    {},
	".aac":   {},
	".avif":  {},
	".br":    {},
	".bz2":   {},
	".flac":  {},
	".gif":   {},
	".gz":    {},
	".heic":  {},
	".ico":   {},
	".jpeg":  {},
	".jpg":   {},
	".m4v":   {},
	".mkv":   {},
	".mov":   {},
	".mp3":   {},
	".mp4":   {},
	".ogg":   {},
	".opus":  {},
	".pdf":   {},
	".png":   {},
	".rar":   {},
	".tgz":   {},
	".wav":   {},
	".webm":  {},
	".webp":  {},
	".woff":  {},
	".woff2": {},
	".xz":    {},
	".zip":   {},
	".zst":   {},
}
