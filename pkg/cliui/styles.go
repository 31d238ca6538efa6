package cliui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	SuccessMark  = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("✓")
	FailMark     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")
	StepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))

	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	KeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Bold(true)
	NameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	ValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("215"))
	DimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	WarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	IDStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))

	statusStyles = map[string]lipgloss.Style{
		"CREATED":     lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
		"IN_PROGRESS": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"COMPLETED":   lipgloss.NewStyle().Foreground(lipgloss.Color("70")),
		"CANCELLED":   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
)

// Status renders a session status name in its color.
func Status(name string) string {
	if style, ok := statusStyles[name]; ok {
		return style.Render(name)
	}
	return DimStyle.Render(name)
}

// Score renders a 0-10 score, green when good and red when poor.
func Score(score float64) string {
	text := fmt.Sprintf("%.1f", score)
	switch {
	case score >= 7:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("70")).Render(text)
	case score >= 4:
		return WarnStyle.Render(text)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render(text)
	}
}
