//nolint:varnamelen // Test files use idiomatic short variable names (t, tt, etc.)
package extract_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"github.com/meg/extract-files/internal/config"
	"github.com/meg/extract-files/internal/extract"
	pkgerrors "github.com/meg/extract-files/pkg/errors"
	"github.com/meg/extract-files/pkg/fingerprint"
)

// TestEngine_Run_FailsWhenTargetLocked verifies that a run against a target
// held by another run aborts with a configuration error before touching any
// file.
func TestEngine_Run_FailsWhenTargetLocked(t *testing.T) {
	t.Parallel()

	sourceDir := t.TempDir()
	targetDir := t.TempDir()

	// Hold the run lock the way a concurrent run would.
	held := flock.New(filepath.Join(targetDir, extract.LockFileName))

	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("failed to pre-acquire the lock: locked=%v err=%v", locked, err)
	}

	defer func() { _ = held.Unlock() }()

	cfg := &config.Config{
		Source:    sourceDir,
		TargetDir: targetDir,
		Extension: ".txt",
		Algorithm: fingerprint.SHA512,
	}

	engine, err := extract.NewEngine(cfg, discardLogger())
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	defer engine.Close()

	_, err = engine.Run()
	if err == nil {
		t.Fatal("expected a locked target to abort the run")
	}

	var actionable pkgerrors.ActionableError
	if !errors.As(err, &actionable) {
		t.Fatalf("expected an actionable error, got %v", err)
	}

	if actionable.Category() != pkgerrors.CategoryConfiguration {
		t.Errorf("expected category %q, got %q", pkgerrors.CategoryConfiguration, actionable.Category())
	}

	if !strings.Contains(err.Error(), extract.LockFileName) {
		t.Errorf("expected the error to name the lock file, got %v", err)
	}
}

// TestEngine_Run_ReleasesLockAfterRun verifies the lock is free again once a
// run finishes.
func TestEngine_Run_ReleasesLockAfterRun(t *testing.T) {
	t.Parallel()

	sourceDir := t.TempDir()
	targetDir := t.TempDir()

	cfg := &config.Config{
		Source:    sourceDir,
		TargetDir: targetDir,
		Extension: ".txt",
		Algorithm: fingerprint.SHA512,
	}

	engine, err := extract.NewEngine(cfg, discardLogger())
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	defer engine.Close()

	result, err := engine.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Matched != 0 {
		t.Errorf("an empty source should match nothing, got %d", result.Matched)
	}

	probe := flock.New(filepath.Join(targetDir, extract.LockFileName))

	locked, err := probe.TryLock()
	if err != nil || !locked {
		t.Fatalf("expected the lock to be free after the run: locked=%v err=%v", locked, err)
	}

	_ = probe.Unlock()
}
