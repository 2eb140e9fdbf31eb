package zipdir

import "errors"

var (
	// ErrInvalidPath is returned when a file does not lie under the base directory.
	ErrInvalidPath = errors.New("zipdir: path outside base directory")

	// ErrCanceled is returned when cancellation is observed between entries.
	// The destination is left partially written.
	ErrCanceled = errors.New("zipdir: canceled")

	// ErrIO wraps failures reading a source file or writing the archive.
	// The underlying cause stays reachable through errors.Is/As.
	ErrIO = errors.New("zipdir: i/o error")

	// ErrClosed is returned when an Archive is used after Close.
	ErrClosed = errors.New("zipdir: archive closed")

	// ErrNotDirectory is returned when the source path is not a directory.
	ErrNotDirectory = errors.New("zipdir: not a directory")

	// ErrTooManyFiles is returned when the tree holds more files than allowed.
	ErrTooManyFiles = errors.New("zipdir: too many files")

	// ErrFileTooLarge is returned when a file exceeds the configured size limit.
	ErrFileTooLarge = errors.New("zipdir: file too large")

	// ErrFileChanged is returned in strict mode when a file changed while it was read.
	ErrFileChanged = errors.New("zipdir: file changed during archive creation")
)

// ErrInvalidEntry is returned when an entry's header fields disagree with its payload.
var ErrInvalidEntry = errors.New("zipdir: invalid entry")
