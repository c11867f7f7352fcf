package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

type styles struct {
	header  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	graph   lipgloss.Style
	help    lipgloss.Style
	panel   lipgloss.Style
	running lipgloss.Style
	paused  lipgloss.Style
	failed  lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		header:  lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(14),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		graph:   lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 0),
		help:    lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		panel:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Muted).Padding(1, 2),
		running: lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		paused:  lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		failed:  lipgloss.NewStyle().Foreground(t.Error).Bold(true),
	}
}

// Plot draws values as an ASCII line graph, downsampling to width points.
func Plot(values []float64, caption string, width, height int) string {
	if len(values) < 2 {
		return ""
	}
	return asciigraph.Plot(downsample(values, width),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// downsample keeps at most n evenly spaced points, always including the
// last one.
func downsample(values []float64, n int) []float64 {
	if n <= 1 || len(values) <= n {
		return values
	}
	out := make([]float64, n)
	step := float64(len(values)-1) / float64(n-1)
	for i := range out {
		out[i] = values[int(float64(i)*step+0.5)]
	}
	return out
}

// ProgressBar renders fraction in [0, 1] as a bar of the given width.
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	filled = max(0, min(width, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
