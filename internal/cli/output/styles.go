package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles text mode renders with.
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
	Key     lipgloss.Style
}

// DefaultStyles returns the styled set used on terminals.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Key:     lipgloss.NewStyle().Bold(true),
	}
}

// PlainStyles returns unstyled passthrough styles for non-terminal modes.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:   plain,
		Header:  plain,
		Success: plain,
		Error:   plain,
		Warning: plain,
		Muted:   plain,
		Key:     plain,
	}
}
