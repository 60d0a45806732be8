package filesystem

import (
	"fmt"
	"path/filepath"
	"time"

	krfs "github.com/kr/fs"
)

// FileScanner is a lazy iterator over the entries of a directory tree.
// Entries are produced one at a time as the walk advances; the sequence is
// finite and cannot be restarted.
type FileScanner interface {
	// Next advances to the next entry and returns its info.
	// Returns (FileInfo{}, false) when done or on error.
	// Check Err() after Next() returns false to distinguish end-of-scan
	// from failure.
	Next() (FileInfo, bool)

	// Err returns any error that occurred during scanning.
	// Should be checked after Next() returns false.
	Err() error

	// SkipDir prunes the directory most recently returned by Next from
	// the walk. Calling it after a non-directory entry is a no-op.
	SkipDir()
}

// FileInfo contains metadata about a scanned entry.
// This is our own type (not os.FileInfo) to make it easier to work with.
type FileInfo struct {
	// RelativePath is the path relative to the scan root
	RelativePath string

	// Size is the file size in bytes
	Size int64

	// ModTime is the modification time
	ModTime time.Time

	// IsDir indicates if this is a directory
	IsDir bool
}

// walkerScanner adapts a kr/fs walker into a FileScanner. Both the local and
// the SFTP filesystems scan through it; only the walker construction and the
// relative-path computation differ. Stepping happens inside Next, so entries
// stream instead of being collected up front.
type walkerScanner struct {
	root      string
	walker    *krfs.Walker
	rel       func(root, target string) (string, error)
	err       error
	lastIsDir bool
}

// newLocalScanner creates a lazy scanner over the local filesystem.
func newLocalScanner(root string) *walkerScanner {
	return &walkerScanner{
		root:   root,
		walker: krfs.Walk(root),
		rel:    localRelativePath,
	}
}

// newWalkerScanner wraps an already-built walker (used for SFTP).
func newWalkerScanner(root string, walker *krfs.Walker, rel func(root, target string) (string, error)) *walkerScanner {
	return &walkerScanner{
		root:   root,
		walker: walker,
		rel:    rel,
	}
}

// Err returns any error that occurred during scanning.
func (s *walkerScanner) Err() error {
	return s.err
}

// Next advances the walk and returns the next entry under the root.
func (s *walkerScanner) Next() (FileInfo, bool) {
	if s.err != nil {
		return FileInfo{}, false
	}

	for s.walker.Step() {
		if err := s.walker.Err(); err != nil { //nolint:noinlineerr // Inline error check is idiomatic for walker error handling
			// The walker's error names the failing path; the caller adds
			// scan-level context.
			s.err = err

			return FileInfo{}, false
		}

		fullPath := s.walker.Path()

		// Skip the root directory itself
		if fullPath == s.root {
			continue
		}

		relPath, err := s.rel(s.root, fullPath)
		if err != nil {
			s.err = fmt.Errorf("failed to get relative path for %s: %w", fullPath, err)
			return FileInfo{}, false
		}

		stat := s.walker.Stat()
		s.lastIsDir = stat.IsDir()

		return FileInfo{
			RelativePath: relPath,
			Size:         stat.Size(),
			ModTime:      stat.ModTime(),
			IsDir:        stat.IsDir(),
		}, true
	}

	return FileInfo{}, false
}

// SkipDir prunes the most recently returned directory from the walk.
func (s *walkerScanner) SkipDir() {
	if s.walker != nil && s.lastIsDir {
		s.walker.SkipDir()
	}
}

// localRelativePath computes the path of target relative to root using OS
// path rules.
func localRelativePath(root, target string) (string, error) {
	return filepath.Rel(root, target) //nolint:wrapcheck // Caller adds path context
}
