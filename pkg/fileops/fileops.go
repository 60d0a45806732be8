// Package fileops performs the copy and move placements chosen by the
// naming layer, across any pairing of local and remote filesystems.
package fileops

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/meg/extract-files/pkg/filesystem"
)

// Exported constants.
const (
	// BufferSize is the size of the buffer used for file copy operations (32KB)
	BufferSize = 32 * 1024
	// DefaultDirPermissions is the default permission mode for created directories
	DefaultDirPermissions = 0o750
)

// ProgressCallback is called during file operations to report progress
type ProgressCallback func(bytesTransferred int64, totalBytes int64, currentFile string)

// FileOps performs placements with dependency injection for filesystem
// access. Source and destination may be different filesystems (e.g. local
// to SFTP), which is why copy is the universal fallback for move.
type FileOps struct {
	SourceFS filesystem.FileSystem
	DestFS   filesystem.FileSystem
}

// NewFileOps creates a FileOps reading from sourceFS and writing to destFS.
// Passing the same instance for both enables rename-based moves.
func NewFileOps(sourceFS, destFS filesystem.FileSystem) *FileOps {
	return &FileOps{SourceFS: sourceFS, DestFS: destFS}
}

// CopyFile copies src to dst, preserving the source's modification time and
// permission bits. A partial destination file left by a failed copy is
// removed. Returns the number of bytes copied.
func (fo *FileOps) CopyFile(src, dst string, progress ProgressCallback) (int64, error) {
	sourceFile, err := fo.SourceFS.Open(src)
	if err != nil {
		return 0, fmt.Errorf("failed to open source file %s: %w", src, err)
	}

	defer func() {
		_ = sourceFile.Close()
	}()

	sourceInfo, err := sourceFile.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat source file %s: %w", src, err)
	}

	dstDir := filepath.Dir(dst)

	err = fo.DestFS.MkdirAll(dstDir, DefaultDirPermissions)
	if err != nil {
		return 0, fmt.Errorf("failed to create destination directory %s: %w", dstDir, err)
	}

	destFile, err := fo.DestFS.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}

	// Track whether copy completed successfully
	copyCompleted := false

	defer func() {
		_ = destFile.Close()
		// If the copy failed, delete the partial file
		if !copyCompleted {
			_ = fo.DestFS.Remove(dst)
		}
	}()

	written, err := copyLoop(sourceFile, destFile, sourceInfo.Size(), src, progress)
	if err != nil {
		return written, fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}

	// Close the file before setting metadata.
	// This is important for network filesystems like SFTP.
	err = destFile.Close()
	if err != nil {
		return written, fmt.Errorf("failed to close destination file %s: %w", dst, err)
	}

	err = fo.DestFS.Chtimes(dst, sourceInfo.ModTime(), sourceInfo.ModTime())
	if err != nil {
		return written, fmt.Errorf("failed to preserve modification time for %s: %w", dst, err)
	}

	err = fo.DestFS.Chmod(dst, sourceInfo.Mode().Perm())
	if err != nil {
		return written, fmt.Errorf("failed to preserve permissions for %s: %w", dst, err)
	}

	copyCompleted = true

	return written, nil
}

// MoveFile moves src to dst. On a shared filesystem it renames; when the
// filesystems differ, or the rename fails (e.g. across devices), it copies
// and then removes the source. Returns the number of bytes moved.
func (fo *FileOps) MoveFile(src, dst string, progress ProgressCallback) (int64, error) {
	sourceInfo, err := fo.SourceFS.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("failed to stat source file %s: %w", src, err)
	}

	if fo.SourceFS == fo.DestFS {
		dstDir := filepath.Dir(dst)

		err = fo.DestFS.MkdirAll(dstDir, DefaultDirPermissions)
		if err != nil {
			return 0, fmt.Errorf("failed to create destination directory %s: %w", dstDir, err)
		}

		err = fo.DestFS.Rename(src, dst)
		if err == nil {
			return sourceInfo.Size(), nil
		}
		// Rename can fail across mount points; fall through to copy+remove.
	}

	written, err := fo.CopyFile(src, dst, progress)
	if err != nil {
		return written, err
	}

	err = fo.SourceFS.Remove(src)
	if err != nil {
		return written, fmt.Errorf("failed to remove source file %s after copy: %w", src, err)
	}

	return written, nil
}

// copyLoop streams sourceFile into destFile in BufferSize chunks.
//
//nolint:lll // Long function signature with callback parameter
func copyLoop(sourceFile, destFile filesystem.File, sourceSize int64, srcPath string, progress ProgressCallback) (int64, error) {
	var written int64

	buf := make([]byte, BufferSize)

	for {
		nr, err := sourceFile.Read(buf) //nolint:varnamelen // nr is idiomatic for bytes read
		if nr > 0 {
			nw, err := destFile.Write(buf[0:nr]) //nolint:varnamelen // nw is idiomatic for bytes written
			if err != nil {
				return written, fmt.Errorf("failed to write to destination: %w", err)
			}

			if nr != nw {
				return written, fmt.Errorf("short write: %w", io.ErrShortWrite)
			}

			written += int64(nw)

			if progress != nil {
				progress(written, sourceSize, srcPath)
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return written, fmt.Errorf("failed to read from source: %w", err)
		}
	}

	return written, nil
}
