// Package filedb stores a record collection as a single JSON array file.
//
// Every Load reads the whole file and every Save rewrites it. A missing or
// unparsable file loads as an empty collection without an error. A valid array
// holding a record that does not decode is an error, so the next Save cannot
// overwrite the readable records.
package filedb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/techvisits/visits-manager/internal/infrastructure/db/jsonarray"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// JSONFile implements ports.Store over one JSON array file.
type JSONFile[T any] struct {
	path      string
	logger    zerolog.Logger
	fallbacks prometheus.Counter // optional
}

// New returns a store for the file at path. fallbacks, when non-nil, is
// incremented each time a corrupt file is read as empty.
func New[T any](path string, logger zerolog.Logger, fallbacks prometheus.Counter) *JSONFile[T] {
	return &JSONFile[T]{
		path:      path,
		logger:    logger.With().Str("file", path).Logger(),
		fallbacks: fallbacks,
	}
}

// Path returns the backing file path.
func (f *JSONFile[T]) Path() string {
	return f.path
}

// Load reads the whole collection. Unreadable files and content that is not a
// JSON array yield an empty slice. Records that do not fit T are an error.
func (f *JSONFile[T]) Load(_ context.Context) ([]T, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			f.fallback(err, "read failed, using empty collection")
		}
		return []T{}, nil
	}

	records, err := jsonarray.Decode[T](raw)
	if errors.Is(err, jsonarray.ErrMalformed) {
		f.fallback(err, "malformed collection file, using empty collection")
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("filedb: load %s: %w", f.path, err)
	}
	return records, nil
}

// Save replaces the file contents with records, creating the parent directory
// if needed. The data is written to a temporary file and renamed into place.
func (f *JSONFile[T]) Save(_ context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("filedb: encode %s: %w", f.path, err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("filedb: create dir %s: %w", dir, err)
	}

	return writeFileAtomic(f.path, data)
}

// Ping reports whether the data directory can be created and written to.
func (f *JSONFile[T]) Ping(_ context.Context) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("filedb: data dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".ping-*")
	if err != nil {
		return fmt.Errorf("filedb: data dir %s not writable: %w", dir, err)
	}
	name := tmp.Name()
	_ = tmp.Close()
	return os.Remove(name)
}

func (f *JSONFile[T]) fallback(err error, msg string) {
	f.logger.Warn().Err(err).Msg(msg)
	if f.fallbacks != nil {
		f.fallbacks.Inc()
	}
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("filedb: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("filedb: write %s: %w", path, err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("filedb: chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("filedb: close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("filedb: replace %s: %w", path, err)
	}
	return nil
}

