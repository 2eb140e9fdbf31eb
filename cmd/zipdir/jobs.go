package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/meigma/zipdir"
)

// job describes one directory to package.
type job struct {
	Src             string   `yaml:"src"`
	Dst             string   `yaml:"dst"`
	Level           *int     `yaml:"level"`
	StorePrefixes   []string `yaml:"store_prefixes"`
	StoreCompressed bool     `yaml:"store_compressed"`
	ModTime         string   `yaml:"mtime"`
	MaxFiles        int      `yaml:"max_files"`
}

type jobFile struct {
	Jobs []job `yaml:"jobs"`
}

// loadJobs reads a YAML job file.
func loadJobs(path string) ([]job, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, err
	}
	var jf jobFile
	if err := yaml.Unmarshal(data, &jf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(jf.Jobs) == 0 {
		return nil, fmt.Errorf("%s: no jobs", path)
	}
	for i, j := range jf.Jobs {
		if err := j.validate(); err != nil {
			return nil, fmt.Errorf("%s: job %d: %w", path, i, err)
		}
	}
	return jf.Jobs, nil
}

func (j job) validate() error {
	if j.Src == "" {
		return errors.New("src is required")
	}
	if j.Dst == "" {
		return errors.New("dst is required")
	}
	if j.ModTime != "" {
		if _, err := time.Parse(time.RFC3339, j.ModTime); err != nil {
			return fmt.Errorf("mtime: %w", err)
		}
	}
	return nil
}

// options converts the job settings into build options.
func (j job) options(logger *slog.Logger) []zipdir.Option {
	opts := []zipdir.Option{zipdir.WithLogger(logger.With("src", j.Src))}
	if j.Level != nil {
		opts = append(opts, zipdir.WithCompressionLevel(*j.Level))
	}
	if len(j.StorePrefixes) > 0 || j.StoreCompressed {
		prefixes := j.StorePrefixes
		if len(prefixes) == 0 {
			prefixes = []string{zipdir.DefaultStorePrefix}
		}
		fns := make([]zipdir.StoreFunc, 0, len(prefixes)+1)
		for _, p := range prefixes {
			fns = append(fns, zipdir.StorePrefix(p))
		}
		if j.StoreCompressed {
			fns = append(fns, zipdir.StoreCompressedFormats())
		}
		opts = append(opts, zipdir.WithStoreFuncs(fns...))
	}
	if j.ModTime != "" {
		// validate already checked the format.
		t, _ := time.Parse(time.RFC3339, j.ModTime)
		opts = append(opts, zipdir.WithModTime(t))
	}
	if j.MaxFiles != 0 {
		opts = append(opts, zipdir.WithMaxFiles(j.MaxFiles))
	}
	return opts
}

// runJobs builds every job, at most parallel at a time. Each build is
// sequential on its own. The first failure cancels the remaining jobs.
func runJobs(ctx context.Context, jobs []job, parallel int, logger *slog.Logger, out io.Writer) error {
	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}

	var mu sync.Mutex
	for _, j := range jobs {
		g.Go(func() error {
			res, err := zipdir.Build(ctx, j.Src, j.Dst, j.options(logger)...)
			if err != nil {
				if errors.Is(err, zipdir.ErrCanceled) {
					logger.Warn("partial archive left on disk", "dst", j.Dst)
				}
				return fmt.Errorf("%s: %w", j.Dst, err)
			}
			mu.Lock()
			defer mu.Unlock()
			_, err = fmt.Fprintf(out, "%s\t%s\t%d entries\t%d bytes\n", j.Dst, res.Digest, len(res.Entries), res.Size)
			return err
		})
	}
	return g.Wait()
}
