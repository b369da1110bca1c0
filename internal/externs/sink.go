// Package externs models the shared externs artifact as an injected sink.
// The artifact accumulates one declaration fragment per invocation, is never
// truncated or deduplicated, and must tolerate appends from independent
// invocations running concurrently in the host's build graph.
package externs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Sink receives complete, self-terminated declaration fragments.
type Sink interface {
	// Append writes one fragment. Fragments from concurrent invocations may
	// interleave in any order but must never interleave within a fragment.
	Append(fragment string) error
}

// FileSink appends fragments to a file on disk.
type FileSink struct {
	path string
}

// NewFileSink returns a sink appending to path. The parent directory must
// already exist; the config resolver creates it before the pipeline starts.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Path returns the artifact path.
func (s *FileSink) Path() string {
	return s.path
}

// Append opens the artifact in append mode and writes the fragment with a
// single Write call, relying on O_APPEND atomicity for fragment-granularity
// interleaving.
func (s *FileSink) Append(fragment string) error {
	if fragment == "" {
		return nil
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening externs file %s: %w", s.path, err)
	}
	if _, err := f.Write([]byte(fragment)); err != nil {
		f.Close()
		return fmt.Errorf("appending to externs file %s: %w", s.path, err)
	}
	return f.Close()
}

// EnsureDir creates the extern directory (and parents) if absent. Idempotent.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating extern directory %s: %w", dir, err)
	}
	return nil
}

// DefaultFile returns the artifact path inside dir.
func DefaultFile(dir string) string {
	return filepath.Join(dir, "externs.js")
}

// Buffer is an in-memory sink for tests.
type Buffer struct {
	mu        sync.Mutex
	fragments []string
}

// Append records the fragment.
func (b *Buffer) Append(fragment string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fragments = append(b.fragments, fragment)
	return nil
}

// Fragments returns a copy of the appended fragments in call order.
func (b *Buffer) Fragments() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.fragments...)
}

// String returns the accumulated artifact content.
func (b *Buffer) String() string {
	return strings.Join(b.Fragments(), "")
}
