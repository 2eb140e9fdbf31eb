// Package zipdir packages a directory tree into a single ZIP archive.
//
// Each regular file under the source directory becomes one entry named by
// its '/'-separated path relative to that directory. A path-based policy
// picks the storage method per entry:
//   - STORED: bytes are written verbatim and the CRC-32 and sizes are placed
//     in the local header, so a loader can memory-map the entry in place.
//     By default every entry whose name starts with "assets" is stored.
//   - DEFLATED: everything else, compressed with deflate.
//
// # Quick Start
//
//	res, err := zipdir.Build(ctx, "./bundle", "./bundle.zip")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Digest, len(res.Entries))
//
// # Cancellation
//
// Builds are sequential and can be long. Cancel through the context or an
// injected Canceler; both are polled between entries:
//
//	_, err := zipdir.Build(ctx, src, dst,
//	    zipdir.WithCanceler(zipdir.CancelFunc(job.Canceled)),
//	)
//	if errors.Is(err, zipdir.ErrCanceled) {
//	    os.Remove(dst)
//	}
//
// A canceled or failed build still finalizes the archive, but the file it
// leaves behind is partial. Removing it is the caller's decision.
package zipdir
