package shared_test

import (
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/meg/extract-files/internal/tui/shared"
)

func TestNewProgressModel(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	model := shared.NewProgressModel(shared.ProgressBarWidth)

	g.Expect(model.Width).Should(Equal(shared.ProgressBarWidth))

	// The caller renders the percentage next to the bar
	g.Expect(model.ShowPercentage).Should(BeFalse())
}

func TestRenderASCIIProgressEmpty(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	result := shared.RenderASCIIProgress(0.0, 10)

	g.Expect(result).Should(Equal("[          ] 0%"))
}

func TestRenderASCIIProgressPartial(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	result := shared.RenderASCIIProgress(0.5, 10)

	g.Expect(result).Should(Equal("[===>      ] 50%"))
}

func TestRenderASCIIProgressThin(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	// Too little fill for an = before the marker; the marker still shows
	result := shared.RenderASCIIProgress(0.1, 10)

	g.Expect(result).Should(Equal("[>         ] 10%"))
}

func TestRenderASCIIProgressFull(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	result := shared.RenderASCIIProgress(1.0, 10)

	g.Expect(result).Should(Equal("[==========] 100%"))
}
