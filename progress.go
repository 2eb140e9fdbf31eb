package zipdir

// ProgressEvent represents a progress update during archive creation.
type ProgressEvent struct {
	// Stage identifies the current phase of the operation.
	Stage ProgressStage

	// Path is the entry name currently being processed, if applicable.
	Path string

	// FilesDone is the number of entries written so far.
	FilesDone int

	// BytesDone is the number of uncompressed bytes written so far.
	BytesDone uint64
}

// ProgressStage identifies the current phase of archive creation.
type ProgressStage uint8

const (
	// StageWalking indicates the directory tree walk has started.
	StageWalking ProgressStage = iota

	// StageWriting indicates an entry was written to the archive.
	StageWriting

	// StageFinalizing indicates the central directory is being written.
	StageFinalizing
)

// String returns the string representation of the stage.
func (s ProgressStage) String() string {
	switch s {
	case StageWalking:
		return "walking"
	case StageWriting:
		return "writing"
	case StageFinalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}

// ProgressFunc receives progress updates. Calls are made from the building
// goroutine, one at a time.
type ProgressFunc func(ProgressEvent)
