// Package snapshot persists fitted vocabularies so they can be reapplied to
// new text or inspected later.
//
// Snapshots are YAML documents listing tokens in column order. Writes go to a
// temporary file that is renamed into place while holding an advisory lock on
// "<path>.lock", so concurrent writers never interleave.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"resumerank/internal/domain"
	"resumerank/internal/embedding/vocabulary"
)

// Version is the snapshot format version written by Save.
const Version = 1

// ErrIncompatible is returned when a snapshot cannot be reapplied with the
// current tokenizer or format.
var ErrIncompatible = errors.New("incompatible snapshot")

// File is the on-disk layout of a snapshot.
type File struct {
	Version   int       `yaml:"version"`
	Tokenizer string    `yaml:"tokenizer"`
	CreatedAt time.Time `yaml:"created_at"`
	Tokens    []string  `yaml:"tokens"`
}

// Options configures a Store.
type Options struct {
	// Enabled gates persistence. Callers skip Save when it is false.
	Enabled bool
	// LockTimeout bounds the wait for the destination lock. Zero waits until ctx is done.
	LockTimeout time.Duration
}

// Store reads and writes vocabulary snapshots on the local filesystem.
type Store struct {
	opts Options
	now  func() time.Time
}

// NewStore creates a Store.
func NewStore(opts Options) *Store {
	return &Store{opts: opts, now: time.Now}
}

// Enabled reports whether persistence is switched on.
func (s *Store) Enabled() bool { return s.opts.Enabled }

// Save writes v to path. Every failure is returned as *domain.SnapshotWriteError.
func (s *Store) Save(ctx context.Context, v *vocabulary.Vocabulary, path string) error {
	if err := s.save(ctx, v, path); err != nil {
		return &domain.SnapshotWriteError{Path: path, Err: err}
	}
	return nil
}

func (s *Store) save(ctx context.Context, v *vocabulary.Vocabulary, path string) error {
	if v == nil {
		return vocabulary.ErrNilVocabulary
	}
	if path == "" {
		return errors.New("empty destination path")
	}
	data, err := yaml.Marshal(File{
		Version:   Version,
		Tokenizer: vocabulary.Tokenizer,
		CreatedAt: s.now().UTC(),
		Tokens:    v.Tokens(),
	})
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	unlock, err := s.lock(ctx, path)
	if err != nil {
		return err
	}
	defer unlock()

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

func (s *Store) lock(ctx context.Context, path string) (func(), error) {
	if s.opts.LockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.LockTimeout)
		defer cancel()
	}
	fl := flock.New(path + ".lock")
	ok, err := fl.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("lock: %w", err)
	}
	if !ok {
		return nil, errors.New("lock: not acquired")
	}
	return func() { _ = fl.Unlock() }, nil
}

// Load reads the snapshot at path and rebuilds its vocabulary.
func (s *Store) Load(ctx context.Context, path string) (*vocabulary.Vocabulary, error) {
	f, err := s.Inspect(ctx, path)
	if err != nil {
		return nil, err
	}
	v, err := vocabulary.FromTokens(f.Tokens)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return v, nil
}

// Inspect reads and validates the raw snapshot file at path.
func (s *Store) Inspect(ctx context.Context, path string) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	if f.Version != Version {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrIncompatible, f.Version, Version)
	}
	if f.Tokenizer != vocabulary.Tokenizer {
		return nil, fmt.Errorf("%w: tokenizer %q, want %q", ErrIncompatible, f.Tokenizer, vocabulary.Tokenizer)
	}
	return &f, nil
}
