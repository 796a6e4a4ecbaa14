package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
)

// ErrCorrupt marks persisted data that exists but could not be decoded
var ErrCorrupt = errors.New("persisted data is corrupt")

// PersistError describes a failed save or load. It is never fatal; the
// caller logs it and carries on with what is in memory.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// Backend stores whole documents. Loads of missing data return empty values
// and no error.
type Backend interface {
	SaveSnapshot(ctx context.Context, snap course.Snapshot) error
	LoadSnapshot(ctx context.Context) (course.Snapshot, error)
	SaveCodes(ctx context.Context, codes map[string]course.SharedCourseList) error
	LoadCodes(ctx context.Context) (map[string]course.SharedCourseList, error)
}

// Save writes the snapshot and the registry. Both are attempted even if the
// first fails.
func (s *Store) Save(ctx context.Context, b Backend) error {
	var errs []error
	if err := b.SaveSnapshot(ctx, s.Snapshot()); err != nil {
		errs = append(errs, &PersistError{Op: "save snapshot", Err: err})
	}
	if err := b.SaveCodes(ctx, s.codes.Entries()); err != nil {
		errs = append(errs, &PersistError{Op: "save codes", Err: err})
	}
	return errors.Join(errs...)
}

// SaveCodes writes only the registry, for passes with no new snapshot
func (s *Store) SaveCodes(ctx context.Context, b Backend) error {
	if err := b.SaveCodes(ctx, s.codes.Entries()); err != nil {
		return &PersistError{Op: "save codes", Err: err}
	}
	return nil
}

// Load warm-starts the store. Whatever can be read is installed; unreadable
// documents leave that part empty and are reported in the returned error.
func (s *Store) Load(ctx context.Context, b Backend) error {
	var errs []error

	snap, err := b.LoadSnapshot(ctx)
	if err != nil {
		errs = append(errs, &PersistError{Op: "load snapshot", Err: err})
	} else {
		s.Restore(snap)
	}

	codes, err := b.LoadCodes(ctx)
	if err != nil {
		errs = append(errs, &PersistError{Op: "load codes", Err: err})
	} else if skipped := s.codes.Load(codes); skipped > 0 {
		errs = append(errs, &PersistError{Op: "load codes", Err: fmt.Errorf("%w: %d duplicate entries skipped", ErrCorrupt, skipped)})
	}

	return errors.Join(errs...)
}
