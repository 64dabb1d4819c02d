// Package viz renders trajectories and densities as terminal plots.
package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// Series plots one trajectory component against its index, labelled with
// the time span.
func Series(times, values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return dimStyle.Render("(empty series)")
	}
	chart := asciigraph.Plot(values,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(caption),
	)
	span := fmt.Sprintf("t ∈ [%.3g, %.3g]", times[0], times[len(times)-1])
	return graphStyle.Render(chart) + "\n" + dimStyle.Render(span)
}

// Density plots a probability density over its grid, labelled with the
// domain bounds.
func Density(x, p []float64, caption string, width, height int) string {
	if len(p) == 0 {
		return dimStyle.Render("(empty density)")
	}
	chart := asciigraph.Plot(p,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(caption),
	)
	span := fmt.Sprintf("x ∈ [%.3g, %.3g]", x[0], x[len(x)-1])
	return graphStyle.Render(chart) + "\n" + dimStyle.Render(span)
}

// Header renders a plot title in the shared style.
func Header(title string) string {
	return headerStyle.Render(title)
}

// StatLine renders one aligned label/value pair.
func StatLine(label string, format string, args ...any) string {
	return labelStyle.Render(label) + valueStyle.Render(fmt.Sprintf(format, args...))
}

// Help renders a dimmed key-hint footer.
func Help(hints ...string) string {
	return helpStyle.Render(strings.Join(hints, "  "))
}
