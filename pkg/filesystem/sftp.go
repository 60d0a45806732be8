package filesystem

import (
	"fmt"
	"os"
	"path"
	"strings"
	"time"
)

// SFTPFileSystem implements FileSystem over a single SFTP connection.
//
// The extraction run is single-threaded, so one connection is enough; there
// is no client pool. Remote paths always use forward slashes, so the path
// package (not filepath) handles them.
type SFTPFileSystem struct {
	conn *SFTPConnection
}

// NewSFTPFileSystem creates a new SFTP filesystem using an established
// connection. The caller keeps ownership of the connection and closes it
// when done.
func NewSFTPFileSystem(conn *SFTPConnection) *SFTPFileSystem {
	return &SFTPFileSystem{conn: conn}
}

// Chmod changes the permission bits of a remote file.
func (fs *SFTPFileSystem) Chmod(filePath string, mode os.FileMode) error {
	err := fs.conn.Client().Chmod(filePath, mode)
	if err != nil {
		return fmt.Errorf("failed to change mode of remote file %s: %w", filePath, err)
	}

	return nil
}

// Chtimes changes the access and modification times of a remote file.
func (fs *SFTPFileSystem) Chtimes(filePath string, atime, mtime time.Time) error {
	err := fs.conn.Client().Chtimes(filePath, atime, mtime)
	if err != nil {
		return fmt.Errorf("failed to change times for remote file %s: %w", filePath, err)
	}

	return nil
}

// Create creates a remote file for writing.
func (fs *SFTPFileSystem) Create(filePath string) (File, error) {
	file, err := fs.conn.Client().Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote file %s: %w", filePath, err)
	}

	return file, nil
}

// MkdirAll creates a remote directory and all necessary parents.
func (fs *SFTPFileSystem) MkdirAll(dirPath string, _ os.FileMode) error {
	// SFTP servers apply their own default modes.
	err := fs.conn.Client().MkdirAll(dirPath)
	if err != nil {
		return fmt.Errorf("failed to create remote directory %s: %w", dirPath, err)
	}

	return nil
}

// Open opens a remote file for reading.
func (fs *SFTPFileSystem) Open(filePath string) (File, error) {
	file, err := fs.conn.Client().Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote file %s: %w", filePath, err)
	}

	return file, nil
}

// Remove removes a remote file or empty directory.
func (fs *SFTPFileSystem) Remove(filePath string) error {
	err := fs.conn.Client().Remove(filePath)
	if err != nil {
		return fmt.Errorf("failed to remove remote file %s: %w", filePath, err)
	}

	return nil
}

// Rename renames a remote file.
func (fs *SFTPFileSystem) Rename(oldPath, newPath string) error {
	err := fs.conn.Client().Rename(oldPath, newPath)
	if err != nil {
		return fmt.Errorf("failed to rename remote file %s to %s: %w", oldPath, newPath, err)
	}

	return nil
}

// Scan returns a lazy iterator over all entries in a remote directory tree.
func (fs *SFTPFileSystem) Scan(rootPath string) FileScanner {
	return newWalkerScanner(rootPath, fs.conn.Client().Walk(rootPath), remoteRelativePath)
}

// Stat returns file information for a remote file.
func (fs *SFTPFileSystem) Stat(filePath string) (os.FileInfo, error) {
	info, err := fs.conn.Client().Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat remote file %s: %w", filePath, err)
	}

	return info, nil
}

// remoteRelativePath computes the relative path from root to target.
// Uses the path package since SFTP always uses forward slashes.
func remoteRelativePath(root, target string) (string, error) {
	root = path.Clean(root)
	target = path.Clean(target)

	// A home-directory scan is rooted at "." and the walker joins children
	// with path.Join, so their paths are already root-relative.
	if root == "." {
		return target, nil
	}

	if target == root {
		return ".", nil
	}

	if root != "/" && !strings.HasSuffix(root, "/") {
		root += "/"
	}

	if len(target) < len(root) || target[:len(root)] != root {
		return "", fmt.Errorf("target %s is not under root %s", target, root) //nolint:err113 // Path validation error with actual paths
	}

	relPath := target[len(root):]
	if relPath == "" {
		return ".", nil
	}

	return relPath, nil
}
