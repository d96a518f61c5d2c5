package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	header      lipgloss.Style
	tabActive   lipgloss.Style
	tabInactive lipgloss.Style
	panel       lipgloss.Style
	panelTitle  lipgloss.Style
	userLabel   lipgloss.Style
	agentLabel  lipgloss.Style
	userText    lipgloss.Style
	muted       lipgloss.Style
	hint        lipgloss.Style
	errorText   lipgloss.Style
	section     lipgloss.Style
	inputPanel  lipgloss.Style
	footer      lipgloss.Style
}

func newStyles() styles {
	accent := lipgloss.Color("#7c3aed")
	blue := lipgloss.Color("#3b82f6")
	mint := lipgloss.Color("#10b981")
	muted := lipgloss.Color("#9ca3af")
	red := lipgloss.Color("#ef4444")

	return styles{
		header: lipgloss.NewStyle().
			Padding(0, 1),
		tabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(accent).
			Padding(0, 1),
		tabInactive: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		panelTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),
		userLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(blue),
		agentLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(mint),
		userText: lipgloss.NewStyle().
			PaddingLeft(2),
		muted: lipgloss.NewStyle().
			Foreground(muted),
		hint: lipgloss.NewStyle().
			Faint(true).
			PaddingLeft(2),
		errorText: lipgloss.NewStyle().
			Foreground(red),
		section: lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			MarginTop(1),
		inputPanel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(muted),
		footer: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
	}
}
