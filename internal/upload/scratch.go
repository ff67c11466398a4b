// Package upload holds per-request scratch storage for uploaded files.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrTooLarge is returned when an upload exceeds the byte limit.
var ErrTooLarge = errors.New("upload exceeds size limit")

// Store creates scratch directories beneath Root. Each request gets its own
// directory; nothing is shared between requests.
type Store struct {
	Root string
}

// NewID returns a fresh request identifier.
func NewID() string { return uuid.NewString() }

// Acquire creates the scratch directory for id. The caller must Release it.
func (s *Store) Acquire(id string) (*Scratch, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, fmt.Errorf("invalid scratch id %q", id)
	}
	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir upload root: %w", err)
	}
	dir := filepath.Join(s.Root, id)
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir scratch: %w", err)
	}
	return &Scratch{ID: id, Dir: dir}, nil
}

// Scratch is one request's private directory.
type Scratch struct {
	ID  string
	Dir string

	once sync.Once
	err  error
}

// Write copies r into the scratch directory under a sanitized form of name and
// returns the file path. At most limit bytes are accepted when limit > 0.
func (s *Scratch) Write(name string, r io.Reader, limit int64) (string, error) {
	path := filepath.Join(s.Dir, SafeName(name))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}
	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("write scratch file: %w", err)
	}
	if limit > 0 && n > limit {
		return "", ErrTooLarge
	}
	return path, nil
}

// Release removes the scratch directory. Safe to call more than once.
func (s *Scratch) Release() error {
	s.once.Do(func() {
		s.err = os.RemoveAll(s.Dir)
	})
	return s.err
}

// SafeName strips directory parts and characters that are awkward on disk.
func SafeName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	base = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == 0x7f, strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		}
		return r
	}, base)
	if base == "" || base == "." || base == ".." || base == "/" {
		return "upload"
	}
	return base
}
