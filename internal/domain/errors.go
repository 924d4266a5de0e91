package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCorpus is returned when a run has neither a reference nor candidates.
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrNoReferenceDocument is returned when candidates are supplied without a reference.
	ErrNoReferenceDocument = errors.New("no reference document")
	// ErrDuplicateID is returned when two documents of a run share an ID.
	ErrDuplicateID = errors.New("duplicate document id")
	// ErrDimensionMismatch is matched by *DimensionMismatchError.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrSnapshotWrite is matched by *SnapshotWriteError.
	ErrSnapshotWrite = errors.New("snapshot write failed")
)

// DimensionMismatchError reports vectors built from different vocabularies.
type DimensionMismatchError struct {
	Candidate int
	Reference int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vector dimension mismatch: candidate has %d, reference has %d", e.Candidate, e.Reference)
}

func (e *DimensionMismatchError) Is(target error) bool { return target == ErrDimensionMismatch }

// SnapshotWriteError wraps a failure to persist a vocabulary snapshot.
type SnapshotWriteError struct {
	Path string
	Err  error
}

func (e *SnapshotWriteError) Error() string {
	return fmt.Sprintf("write snapshot %s: %v", e.Path, e.Err)
}

func (e *SnapshotWriteError) Unwrap() error { return e.Err }

func (e *SnapshotWriteError) Is(target error) bool { return target == ErrSnapshotWrite }
