// Package storage persists raw audio files under a single directory.
// Filenames carry a random token, so nothing about ordering or enumeration
// can be inferred from them.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when the named file does not exist.
	ErrNotFound = errors.New("audio file not found")
	// ErrUnsupportedFormat is returned for extensions outside the allow-list.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrInvalidName is returned for names that are not plain filenames.
	ErrInvalidName = errors.New("invalid audio filename")
)

// supportedExtensions lists the upload formats accepted by the platform.
var supportedExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".m4a":  true,
	".webm": true,
}

// Store writes and reads audio files in one directory. There is no
// eviction, no size limit, and no deduplication.
type Store struct {
	dir string
}

// New creates the storage directory if needed and returns a Store for it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating audio directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the storage directory path.
func (s *Store) Dir() string {
	return s.dir
}

// IsSupportedFormat reports whether ext (including the dot) is accepted.
func IsSupportedFormat(ext string) bool {
	return supportedExtensions[strings.ToLower(ext)]
}

// Save writes data under a generated unique name and returns the filename.
// When prefix is non-empty the name is "<prefix>_<token><ext>", otherwise
// "<token><ext>". The extension must be on the allow-list.
func (s *Store) Save(data []byte, prefix, ext string) (string, error) {
	ext = strings.ToLower(ext)
	if !IsSupportedFormat(ext) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	token := strings.ReplaceAll(uuid.New().String(), "-", "")
	name := token + ext
	if prefix != "" {
		name = prefix + "_" + token + ext
	}

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("writing audio file %s: %w", name, err)
	}
	return name, nil
}

// Path returns the on-disk path for name, or ErrNotFound/ErrInvalidName.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", ErrInvalidName
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	return path, nil
}

// Open opens a stored file for reading.
func (s *Store) Open(name string) (*os.File, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// CleanupOlderThan removes files whose modification time is older than
// maxAge and returns how many were deleted.
func (s *Store) CleanupOlderThan(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("reading audio directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.dir, entry.Name())); err == nil {
				deleted++
			}
		}
	}
	return deleted, nil
}
