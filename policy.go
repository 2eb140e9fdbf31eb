package zipdir

import (
	"github.com/klauspost/compress/zip"

	"github.com/meigma/zipdir/internal/write"
)

// DefaultStorePrefix is the entry-name prefix stored uncompressed when no
// StoreFunc option is given. Entries under it can be memory-mapped straight
// out of the archive by a runtime loader.
const DefaultStorePrefix = "assets"

// Method is the ZIP storage method of an entry.
type Method uint16

const (
	// Store writes bytes verbatim with an explicit CRC-32.
	Store Method = Method(zip.Store)

	// Deflate compresses bytes with deflate.
	Deflate Method = Method(zip.Deflate)
)

// String returns the string representation of the method.
func (m Method) String() string {
	switch m {
	case Store:
		return "stored"
	case Deflate:
		return "deflated"
	default:
		return "unknown"
	}
}

// StoreFunc returns true when an entry should be STORED rather than DEFLATED.
// It receives the normalized, '/'-separated entry name.
type StoreFunc = write.StoreFunc

// StorePrefix returns a StoreFunc matching entry names that start with prefix.
//
// This is a plain string test: StorePrefix("assets") also matches a root
// file named "assetsfoo.png".
var StorePrefix = write.Prefix

// StoreCompressedFormats returns a StoreFunc matching extensions that are
// already compressed (images, audio, video, archives, fonts).
var StoreCompressedFormats = write.CompressedFormats
