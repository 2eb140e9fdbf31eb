package zipdir

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// walkItem is a pending child on the walk stack.
type walkItem struct {
	path string
	d    fs.DirEntry
}

// walk visits every descendant of the base directory depth-first in
// pre-order, using an explicit stack so deep trees do not grow the call
// stack. Children are visited in os.ReadDir order. Directories produce no
// entries; every regular file becomes one entry.
//
// Cancellation is polled after each child is handled, so a file that has
// started writing always completes.
func (b *builder) walk(ctx context.Context) error {
	stack, err := b.pushChildren(nil, b.baseDir)
	if err != nil {
		return err
	}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		mode, err := resolveMode(item.path, item.d)
		if err != nil {
			return fmt.Errorf("%w: stat %s: %w", ErrIO, item.path, err)
		}

		switch {
		case mode.IsDir():
			stack, err = b.pushChildren(stack, item.path)
			if err != nil {
				return err
			}
		case mode.IsRegular():
			if err := b.visitFile(item.path); err != nil {
				return err
			}
		default:
			b.log().Debug("skipped non-regular file", "path", item.path, "mode", mode.String())
		}

		if err := b.checkCanceled(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) visitFile(path string) error {
	if b.skip != "" && path == b.skip {
		b.log().Debug("skipped destination archive", "path", path)
		return nil
	}
	if b.cfg.maxFiles > 0 && b.files >= b.cfg.maxFiles {
		return ErrTooManyFiles
	}

	e, err := b.encodeFile(path)
	if err != nil {
		return err
	}
	b.files++
	b.bytes += uint64(e.Size) //nolint:gosec // sizes are non-negative
	b.reportProgress(StageWriting, e.Name)
	return nil
}

// pushChildren appends the children of dir to stack in reverse order so the
// first child is popped first.
func (b *builder) pushChildren(stack []walkItem, dir string) ([]walkItem, error) {
	children, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read directory %s: %w", ErrIO, dir, err)
	}
	for i := len(children) - 1; i >= 0; i-- {
		stack = append(stack, walkItem{
			path: filepath.Join(dir, children[i].Name()),
			d:    children[i],
		})
	}
	return stack, nil
}

// resolveMode returns the type bits of a directory entry, following
// symbolic links to their target.
func resolveMode(path string, d fs.DirEntry) (fs.FileMode, error) {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Mode().Type(), nil
}

func (b *builder) checkCanceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	if b.cfg.canceler != nil && b.cfg.canceler.Canceled() {
		return ErrCanceled
	}
	return nil
}
