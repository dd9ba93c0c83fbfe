package dashboard

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

const (
	thumbChar = "█"
	trackChar = "░"
)

// scrollbarColumn returns one scrollbar cell per visible viewport line.
// Content that fits shows no bar.
func scrollbarColumn(vp *viewport.Model, height int, style lipgloss.Style) []string {
	if height <= 0 {
		return nil
	}
	column := make([]string, height)

	total := vp.TotalLineCount()
	if total <= vp.Height {
		for i := range column {
			column[i] = " "
		}
		return column
	}

	thumb := max(1, height*vp.Height/total)
	percent := min(max(vp.ScrollPercent(), 0), 1)
	maxStart := height - thumb
	start := min(max(int(float64(maxStart)*percent+0.5), 0), maxStart)

	for i := range column {
		if i >= start && i < start+thumb {
			column[i] = style.Render(thumbChar)
		} else {
			column[i] = style.Render(trackChar)
		}
	}
	return column
}

// withScrollbar appends the scrollbar column to the viewport's view.
func withScrollbar(vp *viewport.Model, style lipgloss.Style) string {
	lines := strings.Split(vp.View(), "\n")
	column := scrollbarColumn(vp, len(lines), style)
	for i := range lines {
		lines[i] += column[i]
	}
	return strings.Join(lines, "\n")
}
