package views

import (
	"strings"

	"github.com/JJeris/blendio/internal/domain"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// AddArgumentMsg is sent when a new launch argument was typed
type AddArgumentMsg struct {
	Text string
}

// SetDefaultArgumentMsg marks or clears the default launch argument
type SetDefaultArgumentMsg struct {
	Argument domain.LaunchArgument
	Default  bool
}

// RemoveArgumentMsg asks for a launch argument to be forgotten
type RemoveArgumentMsg struct {
	Argument domain.LaunchArgument
}

// Arguments lists saved launch arguments and lets new ones be typed in
type Arguments struct {
	keys    Keys
	args    []domain.LaunchArgument
	cursor  cursor
	editing bool
	input   textinput.Model
	width   int
	height  int
}

// NewArguments creates a new launch arguments view
func NewArguments(keys Keys, args []domain.LaunchArgument) Arguments {
	ti := textinput.New()
	ti.Placeholder = "--factory-startup --no-window-focus"
	ti.CharLimit = 512
	ti.Width = 50

	m := Arguments{keys: keys, input: ti, width: 80, height: 24}
	return m.WithArguments(args)
}

// WithArguments replaces the list, keeping the selection where possible.
func (m Arguments) WithArguments(args []domain.LaunchArgument) Arguments {
	m.args = args
	m.cursor.resize(len(args))
	return m
}

// Selected returns the currently selected index
func (m Arguments) Selected() int {
	return m.cursor.selected
}

// Count returns the number of saved arguments
func (m Arguments) Count() int {
	return len(m.args)
}

// IsEditing reports whether the text input has focus
func (m Arguments) IsEditing() bool {
	return m.editing
}

// SelectedArgument returns the currently selected argument
func (m Arguments) SelectedArgument() *domain.LaunchArgument {
	if len(m.args) == 0 || m.cursor.selected >= len(m.args) {
		return nil
	}
	return &m.args[m.cursor.selected]
}

// Init implements tea.Model
func (m Arguments) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Arguments) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.handleEditMode(msg)
		}
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Arguments) handleEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.keys.IsCancel(msg):
		m.editing = false
		m.input.Reset()
		m.input.Blur()
		return m, nil

	case msg.Type == tea.KeyEnter:
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.editing = false
		m.input.Reset()
		m.input.Blur()
		return m, emit(AddArgumentMsg{Text: text})

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Arguments) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "n" {
		m.editing = true
		m.input.Focus()
		return m, textinput.Blink
	}
	if m.cursor.move(m.keys, msg) {
		return m, nil
	}

	arg := m.SelectedArgument()
	if arg == nil {
		return m, nil
	}

	switch {
	case m.keys.IsConfirm(msg), msg.String() == "D":
		return m, emit(SetDefaultArgumentMsg{Argument: *arg, Default: !arg.IsDefault})
	case m.keys.IsDelete(msg):
		return m, emit(RemoveArgumentMsg{Argument: *arg})
	}
	return m, nil
}

// View implements tea.Model
func (m Arguments) View() string {
	output := titleStyle.Render("Launch Arguments") + "\n"
	output += infoStyle.Render("The default argument is used when launching from the Builds and Projects tabs.") + "\n\n"

	if m.editing {
		output += "New arguments: " + m.input.View() + "\n\n"
		output += infoStyle.Render("enter: save  esc: cancel")
		return output
	}

	if len(m.args) == 0 {
		output += itemStyle.Render("No launch arguments saved.") + "\n\n"
		output += infoStyle.Render("Press 'n' to add one.") + "\n"
		return output
	}

	for i, a := range m.args {
		output += row(i == m.cursor.selected, a.ArgumentString+defaultTag(a.IsDefault))
	}

	output += helpStyle.Render("n: new  enter/D: toggle default  d: delete")
	return output
}
