//nolint:varnamelen // Test files use idiomatic short variable names (ok, etc.)
package shared_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/meg/extract-files/internal/extract"
	"github.com/meg/extract-files/internal/tui/shared"
)

func TestRenderErrorListEmpty(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	result := shared.RenderErrorList(shared.ErrorListConfig{
		Errors:  nil,
		Context: shared.ContextComplete,
	})

	g.Expect(result).Should(BeEmpty())
}

func TestRenderErrorListShowsPathAndMessage(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	result := shared.RenderErrorList(shared.ErrorListConfig{
		Errors: []extract.FileError{
			{FilePath: "docs/broken.txt", Error: errors.New("permission denied")},
		},
		Context: shared.ContextComplete,
	})

	g.Expect(result).Should(ContainSubstring("docs/broken.txt"))
	g.Expect(result).Should(ContainSubstring("permission denied"))
}

func TestRenderErrorListIncludesSuggestions(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	result := shared.RenderErrorList(shared.ErrorListConfig{
		Errors: []extract.FileError{
			{FilePath: "docs/broken.txt", Error: errors.New("permission denied")},
		},
		Context: shared.ContextComplete,
	})

	// Permission failures come with enriched guidance
	g.Expect(result).Should(ContainSubstring("•"))
	g.Expect(result).Should(ContainSubstring("ls -la docs/broken.txt"))
}

func TestRenderErrorListInProgressOverflow(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fileErrors := make([]extract.FileError, shared.ErrorLimitInProgress+2)
	for i := range fileErrors {
		fileErrors[i] = extract.FileError{
			FilePath: fmt.Sprintf("file_%d.txt", i),
			Error:    errors.New("input/output error"),
		}
	}

	result := shared.RenderErrorList(shared.ErrorListConfig{
		Errors:  fileErrors,
		Context: shared.ContextInProgress,
	})

	// The live view shows only the first few and defers the rest
	g.Expect(result).Should(ContainSubstring("file_0.txt"))
	g.Expect(result).Should(ContainSubstring(
		fmt.Sprintf("file_%d.txt", shared.ErrorLimitInProgress-1)))
	g.Expect(result).ShouldNot(ContainSubstring(
		fmt.Sprintf("file_%d.txt", shared.ErrorLimitInProgress)))
	g.Expect(result).Should(ContainSubstring("and 2 more (shown in the summary)"))
}

func TestRenderErrorListCompleteShowsMore(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fileErrors := make([]extract.FileError, shared.ErrorLimitInProgress+2)
	for i := range fileErrors {
		fileErrors[i] = extract.FileError{
			FilePath: fmt.Sprintf("file_%d.txt", i),
			Error:    errors.New("input/output error"),
		}
	}

	result := shared.RenderErrorList(shared.ErrorListConfig{
		Errors:  fileErrors,
		Context: shared.ContextComplete,
	})

	// The summary has room for all of these
	for i := range fileErrors {
		g.Expect(result).Should(ContainSubstring(fmt.Sprintf("file_%d.txt", i)))
	}

	g.Expect(result).ShouldNot(ContainSubstring("more"))
}

func TestRenderErrorListTruncatesPaths(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	longPath := strings.Repeat("deep/", 10) + "broken.txt"

	result := shared.RenderErrorList(shared.ErrorListConfig{
		Errors: []extract.FileError{
			{FilePath: longPath, Error: errors.New("input/output error")},
		},
		Context:          shared.ContextComplete,
		MaxWidth:         20,
		TruncatePathFunc: shared.TruncatePath,
	})

	g.Expect(result).ShouldNot(ContainSubstring(longPath))
	g.Expect(result).Should(ContainSubstring("...p/deep/broken.txt"))
}
