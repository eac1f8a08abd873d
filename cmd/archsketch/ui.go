package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/archsketch/engine/knowledge"
	"github.com/archsketch/engine/risk"
)

var (
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626")).Bold(true)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#CA8A04"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#DC2626")).Bold(true).Padding(0, 1)
	highStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626")).Bold(true)
	mediumStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#CA8A04")).Bold(true)
	lowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A"))
)

func formatError(err error) string {
	return errorStyle.Render("Error: ") + err.Error() + "\n"
}

// renderLevel styles a risk level for terminal output.
func renderLevel(l risk.Level) string {
	switch l {
	case risk.LevelCritical:
		return criticalStyle.Render("CRITICAL")
	case risk.LevelHigh:
		return highStyle.Render("HIGH")
	case risk.LevelMedium:
		return mediumStyle.Render("MEDIUM")
	default:
		return lowStyle.Render("LOW")
	}
}

// printAdvisories writes validator warnings and suggestions to stderr so the
// machine-readable payload on stdout stays clean.
func printAdvisories(warnings []knowledge.Warning, suggestions []knowledge.Suggestion) {
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, warnStyle.Render("Warning: ")+w.Message+dimStyle.Render(" ("+w.Detail+")"))
	}
	for _, s := range suggestions {
		fmt.Fprintln(os.Stderr, hintStyle.Render("Hint: "+s.Message))
	}
}
