package zipdir

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	digest "github.com/opencontainers/go-digest"

	"github.com/meigma/zipdir/internal/iocount"
)

const (
	// zipVersion20 is the minimum reader version for deflate and stored entries.
	zipVersion20 = 20

	// flagUTF8 marks entry names encoded as UTF-8.
	flagUTF8 = 0x800
)

// Entry describes one file written to an archive.
type Entry struct {
	// Name is the '/'-separated path relative to the source directory.
	Name string

	// Method is the storage method.
	Method Method

	// Size is the uncompressed length in bytes.
	Size int64

	// CRC32 is the IEEE CRC-32 of the content. Set only for Store entries;
	// deflated entries get their checksum from the container writer.
	CRC32 uint32

	// CompressedSize is the stored length in bytes. Set only for Store
	// entries, where it always equals Size.
	CompressedSize int64

	// Mode holds the file permission bits.
	Mode fs.FileMode

	// ModTime is the modification time recorded in the entry header.
	ModTime time.Time
}

// Stored reports whether the entry is written verbatim.
func (e Entry) Stored() bool {
	return e.Method == Store
}

// Archive is an open ZIP output. It owns the container state (local headers
// and central directory bookkeeping) and must be closed exactly once, which
// writes the trailing central directory.
//
// An Archive is not safe for concurrent use.
type Archive struct {
	zw       *zip.Writer
	cw       *iocount.Writer
	digester digest.Digester
	entries  []Entry
	closed   bool
	logger   *slog.Logger
}

// NewArchive starts a ZIP archive on w. Only the compression level and
// logger options apply here.
func NewArchive(w io.Writer, opts ...Option) (*Archive, error) {
	cfg := newConfig(opts)
	return newArchive(w, &cfg)
}

func newArchive(w io.Writer, cfg *config) (*Archive, error) {
	if err := validateLevel(cfg.level); err != nil {
		return nil, err
	}

	digester := digest.Canonical.Digester()
	cw := &iocount.Writer{W: io.MultiWriter(w, digester.Hash())}
	zw := zip.NewWriter(cw)
	level := cfg.level
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Archive{
		zw:       zw,
		cw:       cw,
		digester: digester,
		entries:  make([]Entry, 0, 256),
		logger:   logger,
	}, nil
}

// Add appends one entry with payload data.
//
// For Store entries, e.CRC32 must already hold the checksum of data and
// e.CompressedSize must equal e.Size; both go into the local header so the
// bytes can be mapped in place. For Deflate entries the writer compresses
// data and computes the checksum itself; e.CRC32 and e.CompressedSize must
// be zero.
func (a *Archive) Add(e Entry, data []byte) error {
	if a.closed {
		return ErrClosed
	}
	if e.Size != int64(len(data)) {
		return fmt.Errorf("%w: %s: size %d, payload %d bytes", ErrInvalidEntry, e.Name, e.Size, len(data))
	}

	var (
		w   io.Writer
		err error
	)
	switch e.Method {
	case Store:
		if e.CompressedSize != e.Size {
			return fmt.Errorf("%w: %s: stored entry has compressed size %d, size %d", ErrInvalidEntry, e.Name, e.CompressedSize, e.Size)
		}
		w, err = a.zw.CreateRaw(storedHeader(e))
	case Deflate:
		if e.CRC32 != 0 || e.CompressedSize != 0 {
			return fmt.Errorf("%w: %s: deflated entry carries a precomputed checksum", ErrInvalidEntry, e.Name)
		}
		w, err = a.zw.CreateHeader(deflatedHeader(e))
	default:
		return fmt.Errorf("%w: %s: unsupported method %d", ErrInvalidEntry, e.Name, e.Method)
	}
	if err != nil {
		return fmt.Errorf("%w: create entry %s: %w", ErrIO, e.Name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: write entry %s: %w", ErrIO, e.Name, err)
	}

	a.entries = append(a.entries, e)
	a.logger.Debug("wrote entry", "name", e.Name, "method", e.Method.String(), "size", e.Size)
	return nil
}

// Close writes the central directory. It does not close the underlying
// writer. Calling Close more than once returns ErrClosed.
func (a *Archive) Close() error {
	if a.closed {
		return ErrClosed
	}
	a.closed = true
	if err := a.zw.Close(); err != nil {
		return fmt.Errorf("%w: finalize archive: %w", ErrIO, err)
	}
	return nil
}

// Entries returns the entries written so far, in submission order.
func (a *Archive) Entries() []Entry {
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Size returns the number of container bytes written so far.
func (a *Archive) Size() int64 {
	return int64(a.cw.N) //nolint:gosec // archive sizes stay far below MaxInt64
}

// Digest returns the SHA-256 digest of the container bytes written so far.
// It covers the whole archive only after Close.
func (a *Archive) Digest() digest.Digest {
	return a.digester.Digest()
}

// storedHeader builds a raw header whose CRC and sizes are written into the
// local header, with no data descriptor.
func storedHeader(e Entry) *zip.FileHeader {
	fh := &zip.FileHeader{
		Name:               e.Name,
		Method:             zip.Store,
		CRC32:              e.CRC32,
		CompressedSize64:   uint64(e.CompressedSize), //nolint:gosec // sizes are non-negative
		UncompressedSize64: uint64(e.Size),           //nolint:gosec // sizes are non-negative
	}
	// CreateRaw does not derive the DOS timestamp from Modified.
	if !e.ModTime.IsZero() {
		fh.SetModTime(e.ModTime) //nolint:staticcheck // only way to fill the DOS date/time fields
	}
	fh.SetMode(e.Mode)
	fh.ReaderVersion = zipVersion20
	fh.CreatorVersion = fh.CreatorVersion&0xff00 | zipVersion20
	if needsUTF8Flag(e.Name) {
		fh.Flags |= flagUTF8
	}
	return fh
}

func deflatedHeader(e Entry) *zip.FileHeader {
	fh := &zip.FileHeader{
		Name:     e.Name,
		Method:   zip.Deflate,
		Modified: e.ModTime,
	}
	fh.SetMode(e.Mode)
	return fh
}

// needsUTF8Flag reports whether name is valid UTF-8 outside the ASCII range.
func needsUTF8Flag(name string) bool {
	for i := 0; i < len(name); i++ {
		if name[i] >= utf8.RuneSelf {
			return utf8.ValidString(name)
		}
	}
	return false
}

func validateLevel(level int) error {
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		return fmt.Errorf("zipdir: invalid compression level %d", level)
	}
	return nil
}
