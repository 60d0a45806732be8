package extract

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/meg/extract-files/pkg/errors"
)

// LockFileName is the name of the run lock file inside the target directory.
const LockFileName = ".extract-files.lock"

// runLock serializes runs of this tool against one local target directory.
// It makes the single-writer assumption fail loudly: two concurrent runs
// would race each other's destination existence checks. External writers are
// not covered; they remain an accepted hazard.
type runLock struct {
	fl *flock.Flock
}

// acquireRunLock takes a non-blocking flock on the lock file inside dir. A
// lock already held by another process yields a configuration error naming
// the lock path.
func acquireRunLock(dir string) (*runLock, error) {
	lockPath := filepath.Join(dir, LockFileName)
	fl := flock.New(lockPath)

	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire run lock %s: %w", lockPath, err)
	}

	if !locked {
		return nil, errors.NewActionableError(
			"target directory is locked by another run: "+lockPath,
			errors.CategoryConfiguration,
			errors.NewSuggestionGenerator().Generate(errors.CategoryConfiguration, lockPath),
			lockPath,
		)
	}

	return &runLock{fl: fl}, nil
}

// release drops the flock. The lock file itself is left behind; it is
// recreated and re-locked by the next run.
func (l *runLock) release() {
	if l == nil || l.fl == nil {
		return
	}

	_ = l.fl.Unlock()
}
