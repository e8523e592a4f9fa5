package build

import (
	"path/filepath"

	"github.com/forgepm/forge"
	"github.com/theckman/go-flock"
)

// TargetLock is an advisory, process-wide exclusive lock on a target
// directory, so two forge invocations building the same project
// concurrently don't race writing the same deps/ files.
type TargetLock struct {
	flock *flock.Flock
}

// AcquireTargetLock takes an exclusive lock on targetDir, blocking until
// it's available. Call Release when the build is done.
func AcquireTargetLock(targetDir string) (*TargetLock, error) {
	if err := mkTarget(targetDir); err != nil {
		return nil, err
	}
	lockPath := filepath.Join(targetDir, ".forge-lock")
	f := flock.NewFlock(lockPath)
	if err := f.Lock(); err != nil {
		return nil, &forge.IoError{Path: lockPath, Err: err}
	}
	return &TargetLock{flock: f}, nil
}

// TryAcquireTargetLock is like AcquireTargetLock but returns immediately
// with ok=false if the lock is already held, instead of blocking.
func TryAcquireTargetLock(targetDir string) (lock *TargetLock, ok bool, err error) {
	if err := mkTarget(targetDir); err != nil {
		return nil, false, err
	}
	lockPath := filepath.Join(targetDir, ".forge-lock")
	f := flock.NewFlock(lockPath)
	locked, err := f.TryLock()
	if err != nil {
		return nil, false, &forge.IoError{Path: lockPath, Err: err}
	}
	if !locked {
		return nil, false, nil
	}
	return &TargetLock{flock: f}, true, nil
}

// Release unlocks the target directory.
func (l *TargetLock) Release() error {
	return l.flock.Unlock()
}
