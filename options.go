package zipdir

import (
	"log/slog"
	"time"

	"github.com/klauspost/compress/flate"
)

// ChangeDetection controls how strictly file changes are detected during creation.
type ChangeDetection uint8

const (
	ChangeDetectionNone ChangeDetection = iota
	ChangeDetectionStrict
)

// config holds configuration for archive creation.
type config struct {
	canceler        Canceler
	store           []StoreFunc
	storeSet        bool
	level           int
	modTime         time.Time
	maxFiles        int
	maxFileSize     int64
	changeDetection ChangeDetection
	progress        ProgressFunc
	logger          *slog.Logger
}

// Option configures archive creation.
type Option func(*config)

func newConfig(opts []Option) config {
	cfg := config{level: flate.DefaultCompression}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.storeSet {
		cfg.store = []StoreFunc{StorePrefix(DefaultStorePrefix)}
	}
	return cfg
}

// WithCanceler sets the cancellation check polled between entries.
func WithCanceler(c Canceler) Option {
	return func(cfg *config) {
		cfg.canceler = c
	}
}

// WithStoreFuncs replaces the storage policy. An entry is STORED if any
// predicate returns true and DEFLATED otherwise. Calling it with no
// predicates deflates every entry.
//
// The default policy is StorePrefix(DefaultStorePrefix).
func WithStoreFuncs(fns ...StoreFunc) Option {
	return func(cfg *config) {
		cfg.store = append(cfg.store, fns...)
		cfg.storeSet = true
	}
}

// WithCompressionLevel sets the deflate level for DEFLATED entries.
// Valid levels range from flate.HuffmanOnly to flate.BestCompression;
// the default is flate.DefaultCompression.
func WithCompressionLevel(level int) Option {
	return func(cfg *config) {
		cfg.level = level
	}
}

// WithModTime stamps every entry with t instead of the file's modification
// time, making archives of an unchanged tree byte-identical.
func WithModTime(t time.Time) Option {
	return func(cfg *config) {
		cfg.modTime = t
	}
}

// WithMaxFiles limits the number of entries written. Zero or negative
// means no limit, which is the default.
func WithMaxFiles(n int) Option {
	return func(cfg *config) {
		cfg.maxFiles = n
	}
}

// WithMaxFileSize rejects files larger than limit bytes before they are
// read into memory. Zero disables the limit.
func WithMaxFileSize(limit int64) Option {
	return func(cfg *config) {
		cfg.maxFileSize = limit
	}
}

// WithChangeDetection controls whether the builder verifies files did not
// change while being read. The zero value disables the check to reduce
// syscalls; ChangeDetectionStrict fails with ErrFileChanged instead.
func WithChangeDetection(cd ChangeDetection) Option {
	return func(cfg *config) {
		cfg.changeDetection = cd
	}
}

// WithProgress sets a callback that receives progress updates.
func WithProgress(fn ProgressFunc) Option {
	return func(cfg *config) {
		cfg.progress = fn
	}
}

// WithLogger sets the logger for build operations.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}
