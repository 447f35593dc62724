// Package views holds the tabs of the blendio TUI. Views never call the
// service themselves; they emit messages the App acts on.
package views

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Keys classifies key presses according to the configured keybindings
type Keys interface {
	IsUp(tea.KeyMsg) bool
	IsDown(tea.KeyMsg) bool
	IsHome(tea.KeyMsg) bool
	IsEnd(tea.KeyMsg) bool
	IsConfirm(tea.KeyMsg) bool
	IsDelete(tea.KeyMsg) bool
	IsCancel(tea.KeyMsg) bool
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("69")).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(lipgloss.Color("205")).
			Bold(true)

	defaultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			PaddingLeft(4)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

// cursor tracks the selected row of a list, wrapping at both ends
type cursor struct {
	selected int
	count    int
}

// move handles navigation keys and reports whether msg was one.
func (c *cursor) move(keys Keys, msg tea.KeyMsg) bool {
	if c.count == 0 {
		return false
	}
	switch {
	case keys.IsUp(msg):
		c.selected--
		if c.selected < 0 {
			c.selected = c.count - 1
		}
	case keys.IsDown(msg):
		c.selected++
		if c.selected >= c.count {
			c.selected = 0
		}
	case keys.IsHome(msg):
		c.selected = 0
	case keys.IsEnd(msg):
		c.selected = c.count - 1
	default:
		return false
	}
	return true
}

// resize keeps the selection in range after the list was reloaded.
func (c *cursor) resize(count int) {
	c.count = count
	if c.selected >= count {
		c.selected = count - 1
	}
	if c.selected < 0 {
		c.selected = 0
	}
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func row(selected bool, line string) string {
	if selected {
		return selectedStyle.Render("▸ "+line) + "\n"
	}
	return itemStyle.Render("  "+line) + "\n"
}

func defaultTag(isDefault bool) string {
	if isDefault {
		return defaultStyle.Render(" [default]")
	}
	return ""
}
