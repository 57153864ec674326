package main

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// styles holds the wizard's terminal styles. Colors are dropped when the
// output is not a terminal.
type styles struct {
	heading lipgloss.Style
	field   lipgloss.Style
	errText lipgloss.Style
	success lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")).MarginTop(1),
		field:   r.NewStyle().Bold(true),
		errText: r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		success: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#3FB950")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
}
