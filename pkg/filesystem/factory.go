package filesystem

import (
	"fmt"
)

// CreateFileSystem creates a FileSystem for the given path.
// Returns (filesystem, basePath, closer, error).
//   - filesystem: The FileSystem to use for operations
//   - basePath: The actual path to use with the filesystem (stripped of URL prefix)
//   - closer: A function to call when done (closes SFTP connections), or nil for local
func CreateFileSystem(pathStr string) (FileSystem, string, func(), error) {
	parsed, err := ParsePath(pathStr)
	if err != nil {
		return nil, "", nil, err
	}

	if !parsed.IsRemote {
		return NewRealFileSystem(), parsed.LocalPath, nil, nil
	}

	conn, err := Connect(parsed.Host, parsed.Port, parsed.User)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to connect to %s@%s:%d: %w",
			parsed.User, parsed.Host, parsed.Port, err)
	}

	closer := func() {
		_ = conn.Close()
	}

	return NewSFTPFileSystem(conn), parsed.Path, closer, nil
}

// CreateFileSystemPair creates filesystems for the source and target paths.
// Returns (sourceFS, targetFS, sourcePath, targetPath, closer, error).
// When both paths are local the same FileSystem instance is returned for
// both, so callers can recognize same-filesystem moves by identity.
// The closer function should be called when done to clean up any connections.
func CreateFileSystemPair(sourcePath, targetPath string) (
	sourceFS FileSystem,
	targetFS FileSystem,
	srcPath string,
	dstPath string,
	closer func(),
	err error,
) {
	parsedSource, err := ParsePath(sourcePath)
	if err != nil {
		return nil, nil, "", "", nil, fmt.Errorf("failed to create source filesystem: %w", err)
	}

	parsedTarget, err := ParsePath(targetPath)
	if err != nil {
		return nil, nil, "", "", nil, fmt.Errorf("failed to create target filesystem: %w", err)
	}

	if !parsedSource.IsRemote && !parsedTarget.IsRemote {
		local := NewRealFileSystem()

		return local, local, parsedSource.LocalPath, parsedTarget.LocalPath, func() {}, nil
	}

	var srcCloser, dstCloser func()

	sourceFS, srcPath, srcCloser, err = CreateFileSystem(sourcePath)
	if err != nil {
		return nil, nil, "", "", nil, fmt.Errorf("failed to create source filesystem: %w", err)
	}

	targetFS, dstPath, dstCloser, err = CreateFileSystem(targetPath)
	if err != nil {
		// Clean up source if target fails
		if srcCloser != nil {
			srcCloser()
		}

		return nil, nil, "", "", nil, fmt.Errorf("failed to create target filesystem: %w", err)
	}

	closer = func() {
		if srcCloser != nil {
			srcCloser()
		}

		if dstCloser != nil {
			dstCloser()
		}
	}

	return sourceFS, targetFS, srcPath, dstPath, closer, nil
}
