package flock

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"

	"github.com/cocoonstack/pmicdbg/lock"
)

const retryDelay = 50 * time.Millisecond

// compile-time interface check.
var _ lock.Locker = (*Lock)(nil)

// Lock is an exclusive flock(2) on a sidecar file. The file is left on disk
// after unlock.
type Lock struct {
	fl *flock.Flock
}

// New creates a Lock for path.
func New(path string) *Lock {
	return &Lock{fl: flock.New(path)}
}

// For returns the conventional lock for a data file: the same path with a
// ".lock" suffix.
func For(dataPath string) *Lock {
	return New(dataPath + ".lock")
}

// Lock blocks until the flock is held or ctx is done.
func (l *Lock) Lock(ctx context.Context) error {
	locked, err := l.fl.TryLockContext(ctx, retryDelay)
	if err != nil {
		return fmt.Errorf("acquire flock %s: %w", l.fl.Path(), err)
	}
	if !locked {
		return fmt.Errorf("acquire flock %s: %w", l.fl.Path(), ctx.Err())
	}
	return nil
}

// Unlock releases the flock.
func (l *Lock) Unlock(_ context.Context) error {
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("release flock %s: %w", l.fl.Path(), err)
	}
	return nil
}
