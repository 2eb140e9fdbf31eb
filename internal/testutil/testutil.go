// Package testutil provides fixtures for building source trees and reading
// archives back in tests.
package testutil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// WriteTree creates files under dir. Keys are '/'-separated relative paths.
func WriteTree(tb testing.TB, dir string, files map[string][]byte) {
	tb.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(tb, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(tb, os.WriteFile(path, content, 0o644))
	}
}

// ArchiveFile is one entry read back from an archive.
type ArchiveFile struct {
	Header  zip.FileHeader
	Content []byte
}

// ReadArchive opens the archive at path and returns its entries in central
// directory order along with their decompressed content.
func ReadArchive(tb testing.TB, path string) []ArchiveFile {
	tb.Helper()
	data, err := os.ReadFile(path)
	require.NoError(tb, err)
	return ReadArchiveBytes(tb, data)
}

// ReadArchiveBytes is ReadArchive for an in-memory archive.
func ReadArchiveBytes(tb testing.TB, data []byte) []ArchiveFile {
	tb.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(tb, err)

	out := make([]ArchiveFile, 0, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(tb, err)
		content, err := io.ReadAll(rc)
		require.NoError(tb, rc.Close())
		require.NoError(tb, err, "read entry %s", f.Name)
		out = append(out, ArchiveFile{Header: f.FileHeader, Content: content})
	}
	return out
}

// Names returns the entry names in order.
func Names(files []ArchiveFile) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Header.Name
	}
	return names
}

// ByName indexes entries by name.
func ByName(files []ArchiveFile) map[string]ArchiveFile {
	m := make(map[string]ArchiveFile, len(files))
	for _, f := range files {
		m[f.Header.Name] = f
	}
	return m
}
