package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorOK   = lipgloss.Color("#10b981") // green-500
	colorWarn = lipgloss.Color("#eab308") // yellow-500
	colorErr  = lipgloss.Color("#ef4444") // red-500
	colorDim  = lipgloss.Color("#6b7280") // gray-500
)

var (
	styleOK   = lipgloss.NewStyle().Foreground(colorOK).Bold(true)
	styleWarn = lipgloss.NewStyle().Foreground(colorWarn).Bold(true)
	styleErr  = lipgloss.NewStyle().Foreground(colorErr).Bold(true)
	styleDim  = lipgloss.NewStyle().Foreground(colorDim)
)

// summaryLine renders a one-line diagnostic count summary. errCount is
// the number of diagnostics at diag.Error severity; total is all of
// them, severity-blind.
func summaryLine(name string, total, errCount int) string {
	if total == 0 {
		return styleOK.Render("ok") + styleDim.Render(" "+name)
	}
	style := styleWarn
	word := "warning"
	if errCount > 0 {
		style = styleErr
		word = "error"
	}
	plural := ""
	if total != 1 {
		plural = "s"
	}
	return style.Render(fmt.Sprintf("%d %s%s", total, word, plural)) + styleDim.Render(" "+name)
}
