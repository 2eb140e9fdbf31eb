// Command zipdir packages directory trees into ZIP archives.
//
// Single archive:
//
//	zipdir -src build/bundle -dst out/bundle.zip
//
// Several archives from a job file, four at a time:
//
//	zipdir -jobs jobs.yaml -parallel 4
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/klauspost/compress/flate"
)

type config struct {
	src             string
	dst             string
	jobsFile        string
	parallel        int
	level           int
	storePrefixes   []string
	storeCompressed bool
	modTime         string
	maxFiles        int
	verbose         bool

	// set holds the names of flags given on the command line.
	set map[string]bool
}

// jobFlags are per-archive settings that a job file carries itself.
var jobFlags = []string{"src", "dst", "level", "store-prefix", "store-compressed", "mtime", "max-files"}

func main() {
	cfg := parseFlags()

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	jobs, err := cfg.jobs()
	if err != nil {
		logger.Error("invalid arguments", "error", err)
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runJobs(ctx, jobs, cfg.parallel, logger, os.Stdout); err != nil {
		logger.Error("packaging failed", "error", err)
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}
}

func parseFlags() config {
	var cfg config
	flag.StringVar(&cfg.src, "src", "", "source directory to package")
	flag.StringVar(&cfg.dst, "dst", "", "destination archive path (overwritten)")
	flag.StringVar(&cfg.jobsFile, "jobs", "", "YAML job file; replaces -src/-dst")
	flag.IntVar(&cfg.parallel, "parallel", runtime.NumCPU(), "maximum concurrent jobs")
	flag.IntVar(&cfg.level, "level", flate.DefaultCompression, "deflate level (-2..9)")
	flag.Func("store-prefix", "store entries with this name prefix uncompressed (repeatable, default \"assets\")", func(s string) error {
		cfg.storePrefixes = append(cfg.storePrefixes, s)
		return nil
	})
	flag.BoolVar(&cfg.storeCompressed, "store-compressed", false, "also store already-compressed formats uncompressed")
	flag.StringVar(&cfg.modTime, "mtime", "", "fixed RFC3339 modification time for every entry")
	flag.IntVar(&cfg.maxFiles, "max-files", 0, "maximum entries per archive (0 means no limit)")
	flag.BoolVar(&cfg.verbose, "v", false, "enable debug logging")
	flag.Parse()
	cfg.set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { cfg.set[f.Name] = true })
	return cfg
}

// jobs returns the job list from the job file or from the single-archive flags.
func (c config) jobs() ([]job, error) {
	if c.jobsFile != "" {
		if c.src != "" || c.dst != "" {
			return nil, errors.New("-jobs cannot be combined with -src or -dst")
		}
		for _, name := range jobFlags {
			if c.set[name] {
				return nil, fmt.Errorf("-jobs cannot be combined with -%s; set it per job", name)
			}
		}
		return loadJobs(c.jobsFile)
	}

	level := c.level
	j := job{
		Src:             c.src,
		Dst:             c.dst,
		Level:           &level,
		StorePrefixes:   c.storePrefixes,
		StoreCompressed: c.storeCompressed,
		ModTime:         c.modTime,
		MaxFiles:        c.maxFiles,
	}
	if err := j.validate(); err != nil {
		return nil, err
	}
	return []job{j}, nil
}
