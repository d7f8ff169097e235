package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/welth/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func TestSparklineFlatSeries(t *testing.T) {
	got := lipgloss.NewStyle().Render(Sparkline([]float64{5, 5, 5}, theme.Active.Accent))
	if n := lipgloss.Width(got); n != 3 {
		t.Fatalf("width = %d, want 3", n)
	}
}

func TestBarChartNegativeFloor(t *testing.T) {
	out := BarChart([]float64{-500, 200, 1200}, []string{"a", "b", "c"}, theme.Active.Blue, 40, 6)
	if !strings.Contains(out, "-500") {
		t.Fatalf("chart missing negative floor label:\n%s", out)
	}
}

func TestFormatChartLabel(t *testing.T) {
	cases := map[float64]string{
		0:        "0",
		950:      "950",
		2000:     "2k",
		2500:     "2.5k",
		-1500000: "-1.5M",
	}
	for in, want := range cases {
		if got := formatChartLabel(in); got != want {
			t.Fatalf("formatChartLabel(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestColorForUsage(t *testing.T) {
	th := theme.Active
	if ColorForUsage(85, 80) != th.Red {
		t.Fatal("85% over an 80% lock should be red")
	}
	if ColorForUsage(10, 80) != th.Green {
		t.Fatal("10% should be green")
	}
}
