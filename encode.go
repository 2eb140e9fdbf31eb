package zipdir

import (
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"

	"github.com/meigma/zipdir/internal/write"
)

// encodeFile reads one file and submits it to the archive as a single entry.
func (b *builder) encodeFile(file string) (Entry, error) {
	name, err := NormalizeEntryName(b.baseDir, file)
	if err != nil {
		return Entry{}, err
	}

	f, err := os.Open(file)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: open %s: %w", ErrIO, name, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Entry{}, fmt.Errorf("%w: stat %s: %w", ErrIO, name, err)
	}
	if !info.Mode().IsRegular() {
		return Entry{}, fmt.Errorf("%w: %s: not a regular file", ErrIO, name)
	}
	if b.cfg.maxFileSize > 0 && info.Size() > b.cfg.maxFileSize {
		return Entry{}, fmt.Errorf("%w: %s: %d bytes exceeds limit of %d", ErrFileTooLarge, name, info.Size(), b.cfg.maxFileSize)
	}

	method := Deflate
	if write.ShouldStore(name, info, b.cfg.store) {
		method = Store
	}

	data, err := readContent(f, info.Size())
	if err != nil {
		return Entry{}, fmt.Errorf("%w: read %s: %w", ErrIO, name, err)
	}
	if err := write.CheckUnchanged(f, name, info, int64(len(data)), b.cfg.changeDetection == ChangeDetectionStrict); err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrFileChanged, err)
	}

	modTime := b.cfg.modTime
	if modTime.IsZero() {
		modTime = info.ModTime()
	}
	e := Entry{
		Name:    name,
		Method:  method,
		Size:    int64(len(data)),
		Mode:    info.Mode().Perm(),
		ModTime: modTime,
	}
	if method == Store {
		// Empty files keep the zero checksum.
		if len(data) > 0 {
			e.CRC32 = crc32.ChecksumIEEE(data)
		}
		e.CompressedSize = e.Size
	}

	if err := b.archive.Add(e, data); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// readContent reads f to EOF. The buffer is sized from the stat size, but
// the returned length reflects what was actually read.
func readContent(f *os.File, size int64) ([]byte, error) {
	n := 512
	if size > 0 && size < math.MaxInt-1 {
		n = int(size) + 1
	}
	data := make([]byte, 0, n)
	for {
		nr, err := f.Read(data[len(data):cap(data)])
		data = data[:len(data)+nr]
		if err != nil {
			if errors.Is(err, io.EOF) {
				return data, nil
			}
			return nil, err
		}
		if len(data) >= cap(data) {
			d := append(data[:cap(data)], 0)
			data = d[:len(data)]
		}
	}
}
