package zipdir

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	digest "github.com/opencontainers/go-digest"
)

// Result summarizes a finished archive.
type Result struct {
	// Entries lists every entry in the order written.
	Entries []Entry

	// Size is the archive length in bytes.
	Size int64

	// Digest is the SHA-256 digest of the archive bytes.
	Digest digest.Digest
}

// Build packages every regular file under srcDir into a ZIP archive at
// dstPath, creating or truncating it.
//
// Entries whose name matches the storage policy (by default, names starting
// with "assets") are STORED with an explicit CRC-32; all others are
// DEFLATED. Entry names are '/'-separated paths relative to srcDir, and
// directories produce no entries.
//
// The walk is sequential. Cancellation, through ctx or WithCanceler, is
// checked between entries and returns an error wrapping ErrCanceled. On any
// error the archive is still finalized and the file closed, and the partial
// file is left at dstPath for the caller to discard.
func Build(ctx context.Context, srcDir, dstPath string, opts ...Option) (res *Result, err error) {
	cfg := newConfig(opts)

	baseDir, err := resolveSource(srcDir)
	if err != nil {
		return nil, err
	}
	// dstPath is truncated below, so reject a bad level before touching it.
	if err := validateLevel(cfg.level); err != nil {
		return nil, err
	}
	dstAbs, err := filepath.Abs(dstPath)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s: %w", ErrIO, dstPath, err)
	}

	f, err := os.Create(dstAbs)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", ErrIO, dstPath, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			res = nil
			err = fmt.Errorf("%w: close %s: %w", ErrIO, dstPath, closeErr)
		}
	}()

	return build(ctx, f, baseDir, dstAbs, &cfg)
}

// Write packages every regular file under srcDir into a ZIP archive written
// to w. It behaves like Build but leaves w open.
func Write(ctx context.Context, w io.Writer, srcDir string, opts ...Option) (*Result, error) {
	cfg := newConfig(opts)

	baseDir, err := resolveSource(srcDir)
	if err != nil {
		return nil, err
	}
	return build(ctx, w, baseDir, "", &cfg)
}

// builder holds state for one packaging operation.
type builder struct {
	cfg     *config
	archive *Archive
	baseDir string
	// skip is the destination path, excluded if it lies inside baseDir.
	skip   string
	files  int
	bytes  uint64
	logger *slog.Logger
}

func build(ctx context.Context, w io.Writer, baseDir, skip string, cfg *config) (*Result, error) {
	archive, err := newArchive(w, cfg)
	if err != nil {
		return nil, err
	}

	b := &builder{
		cfg:     cfg,
		archive: archive,
		baseDir: baseDir,
		skip:    skip,
		logger:  cfg.logger,
	}
	b.log().Info("creating archive", "dir", baseDir)
	b.reportProgress(StageWalking, "")

	walkErr := b.walk(ctx)

	b.reportProgress(StageFinalizing, "")
	closeErr := archive.Close()
	if walkErr != nil {
		if closeErr != nil {
			b.log().Warn("finalize partial archive", "error", closeErr)
		}
		b.log().Info("archive creation stopped", "files", b.files, "error", walkErr)
		return nil, walkErr
	}
	if closeErr != nil {
		return nil, closeErr
	}

	res := &Result{
		Entries: archive.Entries(),
		Size:    archive.Size(),
		Digest:  archive.Digest(),
	}
	b.log().Info("archive created", "files", len(res.Entries), "size", res.Size, "digest", res.Digest.String())
	return res, nil
}

// resolveSource returns the absolute form of dir after checking it is a directory.
func resolveSource(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: resolve %s: %w", ErrIO, dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: stat %s: %w", ErrIO, dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	return abs, nil
}

// reportProgress sends a progress event if a callback is configured.
func (b *builder) reportProgress(stage ProgressStage, path string) {
	if b.cfg.progress == nil {
		return
	}
	b.cfg.progress(ProgressEvent{
		Stage:     stage,
		Path:      path,
		FilesDone: b.files,
		BytesDone: b.bytes,
	})
}

// log returns the logger, falling back to a discard logger if nil.
func (b *builder) log() *slog.Logger {
	if b.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.logger
}
