package console

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles of the console.
type Styles struct {
	Title      lipgloss.Style
	Sidebar    lipgloss.Style
	Item       lipgloss.Style
	Cursor     lipgloss.Style
	Current    lipgloss.Style
	Locked     lipgloss.Style
	Pane       lipgloss.Style
	Header     lipgloss.Style
	StatusInfo lipgloss.Style
	StatusWarn lipgloss.Style
	Help       lipgloss.Style
	Income     lipgloss.Style
	Expense    lipgloss.Style
}

// DefaultStyles is the dark-terminal palette.
var DefaultStyles = Styles{
	Title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7DD3FC")),
	Sidebar:    lipgloss.NewStyle().Width(26).PaddingRight(2).BorderStyle(lipgloss.NormalBorder()).BorderRight(true),
	Item:       lipgloss.NewStyle(),
	Cursor:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F8FAFC")).Background(lipgloss.Color("#1E3A8A")),
	Current:    lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399")),
	Locked:     lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B")),
	Pane:       lipgloss.NewStyle().PaddingLeft(2),
	Header:     lipgloss.NewStyle().Bold(true).Underline(true),
	StatusInfo: lipgloss.NewStyle().Foreground(lipgloss.Color("#A3E635")),
	StatusWarn: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FB7185")),
	Help:       lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B")),
	Income:     lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
	Expense:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F43F5E")),
}
