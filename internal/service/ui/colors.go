package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/sandevgo/sentinel/internal/core"
)

// ANSI colors only, so the palette follows the user's terminal theme.
var (
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	DescStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	FlagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	riskLow    = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	riskMedium = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	riskHigh   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

func RiskStyle(level core.RiskLevel) lipgloss.Style {
	switch level {
	case core.RiskHigh:
		return riskHigh
	case core.RiskMedium:
		return riskMedium
	default:
		return riskLow
	}
}

// RiskBadge renders "● HIGH (80)" in the level's color.
func RiskBadge(r core.RiskAssessment) string {
	return RiskStyle(r.Level).Render(fmt.Sprintf("● %s (%d)", r.Level, r.Score))
}
