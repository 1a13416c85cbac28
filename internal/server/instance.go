package server

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFile is the per-data-dir file whose lock marks the capturing
// instance.
const LockFile = "ortu.lock"

// acquireInstance tries to become the capturing instance for dir. primary
// is false when another process already holds the lock; the returned lock
// must still be released.
func acquireInstance(dir string) (lock *flock.Flock, primary bool, err error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, false, fmt.Errorf("creating data dir: %w", err)
	}
	lock = flock.New(filepath.Join(dir, LockFile))
	primary, err = lock.TryLock()
	if err != nil {
		return nil, false, fmt.Errorf("locking data dir: %w", err)
	}
	return lock, primary, nil
}
