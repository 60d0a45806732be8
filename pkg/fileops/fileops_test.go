//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package fileops_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/meg/extract-files/pkg/fileops"
	"github.com/meg/extract-files/pkg/filesystem"
)

func TestCopyFilePreservesContentAndMetadata(t *testing.T) {
	t.Parallel()

	modTime := time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)

	source := filesystem.NewMockFileSystem()
	source.AddFile("photos/trip.jpg", []byte("jpeg bytes"), modTime)

	err := source.Chmod("photos/trip.jpg", 0o600)
	if err != nil {
		t.Fatalf("Failed to set source mode: %v", err)
	}

	dest := filesystem.NewMockFileSystem()
	ops := fileops.NewFileOps(source, dest)

	written, err := ops.CopyFile("photos/trip.jpg", "out/trip.jpg", nil)

	g := NewWithT(t)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(written).Should(Equal(int64(len("jpeg bytes"))))

	content, gotTime, err := dest.GetFile("out/trip.jpg")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(content).Should(Equal([]byte("jpeg bytes")))
	g.Expect(gotTime).Should(Equal(modTime))

	mode, err := dest.GetMode("out/trip.jpg")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(mode).Should(Equal(os.FileMode(0o600)))
}

func TestCopyFileReportsProgress(t *testing.T) {
	t.Parallel()

	source := filesystem.NewMockFileSystem()
	source.AddFile("big.bin", []byte("0123456789"), time.Now())

	dest := filesystem.NewMockFileSystem()
	ops := fileops.NewFileOps(source, dest)

	var (
		lastTransferred int64
		lastTotal       int64
		lastFile        string
	)

	progress := func(bytesTransferred, totalBytes int64, currentFile string) {
		lastTransferred = bytesTransferred
		lastTotal = totalBytes
		lastFile = currentFile
	}

	_, err := ops.CopyFile("big.bin", "big.bin", progress)

	g := NewWithT(t)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(lastTransferred).Should(Equal(int64(10)))
	g.Expect(lastTotal).Should(Equal(int64(10)))
	g.Expect(lastFile).Should(Equal("big.bin"))
}

func TestCopyFileMissingSource(t *testing.T) {
	t.Parallel()

	ops := fileops.NewFileOps(filesystem.NewMockFileSystem(), filesystem.NewMockFileSystem())

	_, err := ops.CopyFile("absent.txt", "out.txt", nil)

	g := NewWithT(t)
	g.Expect(err).Should(HaveOccurred())
	g.Expect(err.Error()).Should(ContainSubstring("failed to open source file"))
}

// brokenFile fails every write, simulating a full or vanished destination.
type brokenFile struct {
	filesystem.File
}

func (b *brokenFile) Write([]byte) (int, error) {
	return 0, errors.New("disk full") //nolint:err113 // Test-only error
}

// brokenWriteFS hands out files whose writes always fail.
type brokenWriteFS struct {
	*filesystem.MockFileSystem
}

func (b *brokenWriteFS) Create(path string) (filesystem.File, error) {
	file, err := b.MockFileSystem.Create(path)
	if err != nil {
		return nil, err //nolint:wrapcheck // Mock mirrors the wrapped filesystem
	}

	return &brokenFile{File: file}, nil
}

func TestCopyFileRemovesPartialFileOnFailure(t *testing.T) {
	t.Parallel()

	source := filesystem.NewMockFileSystem()
	source.AddFile("data.bin", []byte("payload"), time.Now())

	dest := &brokenWriteFS{MockFileSystem: filesystem.NewMockFileSystem()}
	ops := fileops.NewFileOps(source, dest)

	_, err := ops.CopyFile("data.bin", "out/data.bin", nil)

	g := NewWithT(t)
	g.Expect(err).Should(HaveOccurred())
	g.Expect(err.Error()).Should(ContainSubstring("failed to copy"))
	g.Expect(dest.Exists("out/data.bin")).Should(BeFalse(),
		"A failed copy must not leave a partial destination file")
}

func TestCopyFileRealFilesystem(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	srcFile := filepath.Join(tmpDir, "source.txt")
	dstFile := filepath.Join(tmpDir, "nested", "dest.txt")

	content := []byte("test content to copy")

	err := os.WriteFile(srcFile, content, 0o600)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	modTime := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	err = os.Chtimes(srcFile, modTime, modTime)
	if err != nil {
		t.Fatalf("Failed to set modtime: %v", err)
	}

	local := filesystem.NewRealFileSystem()
	ops := fileops.NewFileOps(local, local)

	written, err := ops.CopyFile(srcFile, dstFile, nil)

	g := NewWithT(t)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(written).Should(Equal(int64(len(content))))

	dstContent, err := os.ReadFile(dstFile)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(dstContent).Should(Equal(content))

	info, err := os.Stat(dstFile)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(info.ModTime().Equal(modTime)).Should(BeTrue(),
		"Copy must preserve the source modification time")
}

func TestMoveFileSameFilesystem(t *testing.T) {
	t.Parallel()

	shared := filesystem.NewMockFileSystem()
	shared.AddFile("inbox/report.pdf", []byte("pdf bytes"), time.Now())

	ops := fileops.NewFileOps(shared, shared)

	written, err := ops.MoveFile("inbox/report.pdf", "archive/report.pdf", nil)

	g := NewWithT(t)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(written).Should(Equal(int64(len("pdf bytes"))))
	g.Expect(shared.Exists("inbox/report.pdf")).Should(BeFalse())

	content, _, err := shared.GetFile("archive/report.pdf")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(content).Should(Equal([]byte("pdf bytes")))
}

func TestMoveFileAcrossFilesystems(t *testing.T) {
	t.Parallel()

	modTime := time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)

	source := filesystem.NewMockFileSystem()
	source.AddFile("local.txt", []byte("carry me"), modTime)

	dest := filesystem.NewMockFileSystem()
	ops := fileops.NewFileOps(source, dest)

	written, err := ops.MoveFile("local.txt", "remote.txt", nil)

	g := NewWithT(t)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(written).Should(Equal(int64(len("carry me"))))
	g.Expect(source.Exists("local.txt")).Should(BeFalse(),
		"Cross-filesystem move must remove the source after copying")

	content, gotTime, err := dest.GetFile("remote.txt")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(content).Should(Equal([]byte("carry me")))
	g.Expect(gotTime).Should(Equal(modTime))
}

func TestMoveFileMissingSource(t *testing.T) {
	t.Parallel()

	ops := fileops.NewFileOps(filesystem.NewMockFileSystem(), filesystem.NewMockFileSystem())

	_, err := ops.MoveFile("absent.txt", "out.txt", nil)

	g := NewWithT(t)
	g.Expect(err).Should(HaveOccurred())
	g.Expect(err.Error()).Should(ContainSubstring("failed to stat source file"))
}
