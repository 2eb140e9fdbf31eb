package write

import (
	"fmt"
	"io/fs"
	"os"
)

// CheckUnchanged verifies a file was not modified while it was read.
// In strict mode it compares the bytes read against the size seen before
// reading, then re-stats the open handle and compares size, mtime, and
// permissions. It returns nil when strict is false.
func CheckUnchanged(f *os.File, name string, before fs.FileInfo, read int64, strict bool) error {
	if !strict {
		return nil
	}
	if read != before.Size() {
		return fmt.Errorf("%s: read %d bytes, expected %d", name, read, before.Size())
	}
	after, err := f.Stat()
	if err != nil {
		return err
	}
	if after.Size() != before.Size() || !after.ModTime().Equal(before.ModTime()) || after.Mode().Perm() != before.Mode().Perm() {
		return fmt.Errorf("%s: metadata changed while reading", name)
	}
	return nil
}
