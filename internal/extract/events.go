package extract

import (
	"time"

	"github.com/meg/extract-files/pkg/fingerprint"
)

// Event is the interface implemented by all extraction run events.
type Event interface {
	isEvent()
}

// EventEmitter receives run events. Emitters are registered on the engine
// before Run and are called synchronously from the run loop, in registration
// order.
type EventEmitter interface {
	Emit(event Event)
}

// RunStarted is emitted once, after the run lock is held and the target
// directory exists, before the first file is considered.
type RunStarted struct {
	Source string
	Target string
	Move   bool
}

func (RunStarted) isEvent() {}

// FilePlaced is emitted after a file lands at its destination.
type FilePlaced struct {
	Placement Placement
}

func (FilePlaced) isEvent() {}

// FileFailed is emitted when one file's processing fails; the run continues
// with the next file.
type FileFailed struct {
	Path string
	Err  error
}

func (FileFailed) isEvent() {}

// RunCompleted is emitted when the scan finishes, fails, or is cancelled.
type RunCompleted struct {
	Result *RunResult
}

func (RunCompleted) isEvent() {}

// Placement describes one file landed in the target directory.
type Placement struct {
	SourcePath string                // path relative to the source root
	DestName   string                // filename chosen within the target directory
	Digest     fingerprint.Digest    // empty when hashing is disabled
	Algorithm  fingerprint.Algorithm // empty when hashing is disabled
	Bytes      int64
	Moved      bool
}

// RunResult contains the final counts of an extraction run. The run reports
// these regardless of how many individual files failed.
type RunResult struct {
	Matched   int
	Placed    int
	Failed    int
	Bytes     int64
	Duration  time.Duration
	Cancelled bool
}
