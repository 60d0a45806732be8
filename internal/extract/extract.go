// Package extract implements the extraction run: scan a source tree, select
// files by extension, pick a collision-free name for each match, and place it
// in a flat target directory.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/meg/extract-files/internal/config"
	"github.com/meg/extract-files/pkg/fileops"
	"github.com/meg/extract-files/pkg/filesystem"
	"github.com/meg/extract-files/pkg/fingerprint"
	"github.com/meg/extract-files/pkg/naming"
)

// RecentlyPlacedLimit is the maximum number of recent placements kept in the
// status for display.
const RecentlyPlacedLimit = 10

// FileError records one file that could not be extracted.
type FileError struct {
	FilePath string
	Error    error
}

// Status is the live state of a run. The run loop mutates it; the TUI polls
// a snapshot through GetStatus.
type Status struct {
	Matched          int   // files that passed the filter
	Placed           int   // files landed in the target directory
	Failed           int   // files that errored and were skipped
	Bytes            int64 // bytes written by placements
	CurrentFile      string
	CurrentFileBytes int64
	CurrentFileTotal int64
	RecentlyPlaced   []Placement // most recent placements (for display)
	Errors           []FileError
	StartTime        time.Time
	EndTime          time.Time
	Done             bool
	Cancelled        bool

	mu sync.RWMutex
}

// Engine drives one extraction run.
type Engine struct {
	SourcePath   string
	TargetPath   string
	Move         bool
	PrefixLength int // 0 disables hashing entirely
	Algorithm    fingerprint.Algorithm
	Status       *Status
	Filter       FileFilter            // File selection (for dependency injection)
	FileOps      *fileops.FileOps      // File operations (for dependency injection)
	SourceFS     filesystem.FileSystem // Scanned for candidates
	TargetFS     filesystem.FileSystem // Probed for destination names
	Log          logrus.FieldLogger

	emitters   []EventEmitter
	cancelChan chan struct{} // Channel to signal cancellation
	cancelOnce sync.Once     // Ensure Cancel() is only called once
	closeFunc  func()        // Function to close SFTP connections (if any)
}

// NewEngine creates an engine from a validated configuration.
// Supports both local paths and SFTP URLs (sftp://user@host:port/path).
// Returns (*Engine, error) where error indicates filesystem setup failure.
func NewEngine(cfg *config.Config, logger logrus.FieldLogger) (*Engine, error) {
	sourceFS, targetFS, srcPath, dstPath, closer, err := filesystem.CreateFileSystemPair(cfg.Source, cfg.TargetDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystems: %w", err)
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	engine := &Engine{
		SourcePath:   srcPath,
		TargetPath:   dstPath,
		Move:         cfg.Move,
		PrefixLength: cfg.PrefixLength,
		Algorithm:    cfg.Algorithm,
		Status:       &Status{StartTime: time.Now()},
		Filter:       NewFilter(cfg.Extension, cfg.CaseSensitive, cfg.Pattern),
		FileOps:      fileops.NewFileOps(sourceFS, targetFS),
		SourceFS:     sourceFS,
		TargetFS:     targetFS,
		Log:          logger,
		cancelChan:   make(chan struct{}),
		closeFunc:    closer, // Store closer to clean up SFTP connections
	}

	return engine, nil
}

// RegisterEmitter adds an event consumer. Emitters are optional; with none
// registered, events are dropped.
func (e *Engine) RegisterEmitter(emitter EventEmitter) {
	e.emitters = append(e.emitters, emitter)
}

// emit sends an event to every registered emitter, in registration order.
func (e *Engine) emit(event Event) {
	for _, emitter := range e.emitters {
		emitter.Emit(event)
	}
}

// Run executes one extraction pass over the source tree. Failures on
// individual files are recorded in the status and the scan continues; only
// run-level problems (target creation, locking, a broken scan) surface as
// the returned error. The RunResult is non-nil whenever scanning started.
func (e *Engine) Run() (*RunResult, error) {
	started := time.Now()

	e.Status.mu.Lock()
	e.Status.StartTime = started
	e.Status.mu.Unlock()

	if err := e.TargetFS.MkdirAll(e.TargetPath, fileops.DefaultDirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create target directory %s: %w", e.TargetPath, err)
	}

	lock, err := e.acquireLock()
	if err != nil {
		return nil, err
	}
	defer lock.release()

	e.emit(RunStarted{Source: e.SourcePath, Target: e.TargetPath, Move: e.Move})
	e.Log.WithFields(logrus.Fields{
		"source": e.SourcePath,
		"target": e.TargetPath,
		"move":   e.Move,
	}).Info("extraction run started")

	resolver := naming.NewResolver(&targetOracle{fs: e.TargetFS, dir: e.TargetPath})
	pruneRel := e.nestedTargetRel()
	scanner := e.SourceFS.Scan(e.SourcePath)

	for {
		if e.isCancelled() {
			break
		}

		entry, ok := scanner.Next()
		if !ok {
			break
		}

		if entry.IsDir {
			// Never descend into our own output.
			if pruneRel != "" && entry.RelativePath == pruneRel {
				scanner.SkipDir()
			}

			continue
		}

		if !e.Filter.Match(entry.RelativePath) {
			continue
		}

		e.noteMatched(entry.RelativePath)

		placement, err := e.extractOne(entry, resolver)
		if err != nil {
			e.noteFailed(entry.RelativePath, err)
			e.emit(FileFailed{Path: entry.RelativePath, Err: err})
			e.Log.WithError(err).WithField("file", entry.RelativePath).Warn("file skipped")

			continue
		}

		e.notePlaced(placement)
		e.emit(FilePlaced{Placement: placement})
		e.Log.WithFields(logrus.Fields{
			"source": placement.SourcePath,
			"dest":   placement.DestName,
			"bytes":  placement.Bytes,
		}).Info("file placed")
	}

	scanErr := scanner.Err()
	if scanErr != nil {
		scanErr = fmt.Errorf("failed to scan %s: %w", e.SourcePath, scanErr)
		e.Log.WithError(scanErr).Error("scan aborted")
	}

	return e.finish(started), scanErr
}

// extractOne fingerprints a single matched file, resolves its destination
// name against the live target directory, and copies or moves it there.
func (e *Engine) extractOne(entry filesystem.FileInfo, resolver *naming.Resolver) (Placement, error) {
	srcPath := filepath.Join(e.SourcePath, entry.RelativePath)

	var (
		digest    fingerprint.Digest
		algorithm fingerprint.Algorithm
	)

	if e.PrefixLength != 0 {
		var err error

		digest, err = fingerprint.File(e.SourceFS, srcPath, e.Algorithm)
		if err != nil {
			return Placement{}, err
		}

		algorithm = e.Algorithm
	}

	destName := resolver.Resolve(filepath.Base(entry.RelativePath), string(digest), e.PrefixLength)
	destPath := filepath.Join(e.TargetPath, destName)

	var (
		written int64
		err     error
	)

	if e.Move {
		written, err = e.FileOps.MoveFile(srcPath, destPath, e.trackProgress)
	} else {
		written, err = e.FileOps.CopyFile(srcPath, destPath, e.trackProgress)
	}

	if err != nil {
		return Placement{}, err
	}

	return Placement{
		SourcePath: entry.RelativePath,
		DestName:   destName,
		Digest:     digest,
		Algorithm:  algorithm,
		Bytes:      written,
		Moved:      e.Move,
	}, nil
}

// acquireLock serializes concurrent runs against a local target directory.
// Remote and mock targets have no lock; their runs proceed unguarded.
func (e *Engine) acquireLock() (*runLock, error) {
	if _, ok := e.TargetFS.(*filesystem.RealFileSystem); !ok {
		return nil, nil
	}

	return acquireRunLock(e.TargetPath)
}

// nestedTargetRel returns the source-relative path of the target directory
// when it sits inside the source tree on the same filesystem, or "" when it
// does not. A nested target is pruned from the scan so a run never
// re-extracts its own output. A target equal to the source root is not
// pruned; pruning it would skip the entire scan.
func (e *Engine) nestedTargetRel() string {
	// CreateFileSystemPair returns one shared instance for same-filesystem
	// pairs, so identity is the nesting precondition.
	if e.SourceFS != e.TargetFS {
		return ""
	}

	rel, err := filepath.Rel(e.SourcePath, e.TargetPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}

	return rel
}

// trackProgress is a fileops.ProgressCallback feeding per-file byte counts
// into the status.
func (e *Engine) trackProgress(transferred, total int64, _ string) {
	e.Status.mu.Lock()
	defer e.Status.mu.Unlock()

	e.Status.CurrentFileBytes = transferred
	e.Status.CurrentFileTotal = total
}

func (e *Engine) noteMatched(relativePath string) {
	e.Status.mu.Lock()
	defer e.Status.mu.Unlock()

	e.Status.Matched++
	e.Status.CurrentFile = relativePath
	e.Status.CurrentFileBytes = 0
	e.Status.CurrentFileTotal = 0
}

func (e *Engine) notePlaced(placement Placement) {
	e.Status.mu.Lock()
	defer e.Status.mu.Unlock()

	e.Status.Placed++
	e.Status.Bytes += placement.Bytes

	e.Status.RecentlyPlaced = append(e.Status.RecentlyPlaced, placement)
	if len(e.Status.RecentlyPlaced) > RecentlyPlacedLimit {
		e.Status.RecentlyPlaced = e.Status.RecentlyPlaced[len(e.Status.RecentlyPlaced)-RecentlyPlacedLimit:]
	}
}

func (e *Engine) noteFailed(relativePath string, err error) {
	e.Status.mu.Lock()
	defer e.Status.mu.Unlock()

	e.Status.Failed++
	e.Status.Errors = append(e.Status.Errors, FileError{FilePath: relativePath, Error: err})
}

// finish stamps the end of the run into the status and emits RunCompleted.
// It runs on every exit from the scan loop: exhausted, failed, or cancelled.
func (e *Engine) finish(started time.Time) *RunResult {
	now := time.Now()

	e.Status.mu.Lock()
	e.Status.EndTime = now
	e.Status.Done = true
	e.Status.Cancelled = e.isCancelled()
	e.Status.CurrentFile = ""

	result := &RunResult{
		Matched:   e.Status.Matched,
		Placed:    e.Status.Placed,
		Failed:    e.Status.Failed,
		Bytes:     e.Status.Bytes,
		Duration:  now.Sub(started),
		Cancelled: e.Status.Cancelled,
	}
	e.Status.mu.Unlock()

	e.emit(RunCompleted{Result: result})
	e.Log.WithFields(logrus.Fields{
		"matched":   result.Matched,
		"placed":    result.Placed,
		"failed":    result.Failed,
		"bytes":     result.Bytes,
		"duration":  result.Duration.Round(time.Millisecond).String(),
		"cancelled": result.Cancelled,
	}).Info("extraction run finished")

	return result
}

// Cancel stops the run after the file in flight finishes. Safe to call from
// any goroutine, any number of times.
func (e *Engine) Cancel() {
	e.cancelOnce.Do(func() {
		close(e.cancelChan)
	})
}

func (e *Engine) isCancelled() bool {
	select {
	case <-e.cancelChan:
		return true
	default:
		return false
	}
}

// Close cleans up resources, including SFTP connections if any.
// Should be called when done with the engine.
func (e *Engine) Close() {
	if e.closeFunc != nil {
		e.closeFunc()
	}
}

// GetStatus returns a snapshot of the current status safe for concurrent
// use.
func (e *Engine) GetStatus() *Status {
	e.Status.mu.RLock()
	defer e.Status.mu.RUnlock()

	status := &Status{
		Matched:          e.Status.Matched,
		Placed:           e.Status.Placed,
		Failed:           e.Status.Failed,
		Bytes:            e.Status.Bytes,
		CurrentFile:      e.Status.CurrentFile,
		CurrentFileBytes: e.Status.CurrentFileBytes,
		CurrentFileTotal: e.Status.CurrentFileTotal,
		StartTime:        e.Status.StartTime,
		EndTime:          e.Status.EndTime,
		Done:             e.Status.Done,
		Cancelled:        e.Status.Cancelled,
	}

	// Copy RecentlyPlaced slice (small, actively displayed)
	status.RecentlyPlaced = make([]Placement, len(e.Status.RecentlyPlaced))
	copy(status.RecentlyPlaced, e.Status.RecentlyPlaced)

	// Copy Errors slice (usually small)
	status.Errors = make([]FileError, len(e.Status.Errors))
	copy(status.Errors, e.Status.Errors)

	return status
}

// targetOracle answers destination existence probes against the live state
// of the target directory. Every probe is a fresh Stat, so names taken by
// earlier placements in the same run are seen immediately.
type targetOracle struct {
	fs  filesystem.FileSystem
	dir string
}

// Exists reports whether name is already taken in the target directory.
func (o *targetOracle) Exists(name string) bool {
	_, err := o.fs.Stat(filepath.Join(o.dir, name))

	return err == nil
}
