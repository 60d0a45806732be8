package filesystem

import (
	"path/filepath"
	"sort"
	"strings"
)

// mockScanner implements FileScanner for MockFileSystem. Entries are
// snapshotted sorted so tests see a deterministic order, mirroring the
// lexical order of the real walker.
type mockScanner struct {
	entries []FileInfo
	index   int
	skipped []string
	scanned bool
	fs      *MockFileSystem
	root    string
}

// newMockScanner creates a new scanner for the given directory.
func newMockScanner(fs *MockFileSystem, root string) *mockScanner {
	return &mockScanner{
		fs:    fs,
		root:  root,
		index: -1,
	}
}

// Err returns any error that occurred during scanning.
func (s *mockScanner) Err() error {
	return nil // MockFileSystem doesn't produce errors during scanning
}

// Next advances to the next entry and returns its info.
func (s *mockScanner) Next() (FileInfo, bool) {
	if !s.scanned {
		s.scan()
		s.scanned = true
	}

	for {
		s.index++
		if s.index >= len(s.entries) {
			return FileInfo{}, false
		}

		entry := s.entries[s.index]
		if s.isSkipped(entry.RelativePath) {
			continue
		}

		return entry, true
	}
}

// SkipDir prunes the most recently returned directory from the walk.
func (s *mockScanner) SkipDir() {
	if s.index < 0 || s.index >= len(s.entries) {
		return
	}

	if entry := s.entries[s.index]; entry.IsDir {
		s.skipped = append(s.skipped, entry.RelativePath+"/")
	}
}

// isSkipped reports whether relPath lives under a pruned directory.
func (s *mockScanner) isSkipped(relPath string) bool {
	for _, prefix := range s.skipped {
		if strings.HasPrefix(relPath, prefix) {
			return true
		}
	}

	return false
}

// scan snapshots all entries under the root, sorted by relative path.
func (s *mockScanner) scan() {
	s.fs.mu.RLock()
	defer s.fs.mu.RUnlock()

	for path, file := range s.fs.files {
		if path == s.root || !strings.HasPrefix(path, s.root+"/") {
			continue
		}

		relPath, err := filepath.Rel(s.root, path)
		if err != nil || relPath == "." {
			continue
		}

		s.entries = append(s.entries, FileInfo{
			RelativePath: relPath,
			Size:         int64(len(file.data)),
			ModTime:      file.modTime,
			IsDir:        file.isDir,
		})
	}

	sort.Slice(s.entries, func(i, j int) bool {
		return s.entries[i].RelativePath < s.entries[j].RelativePath
	})
}
