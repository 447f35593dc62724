package views

import (
	"strings"

	"github.com/JJeris/blendio/internal/domain"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// AddRootMsg is sent when a new installation location was typed
type AddRootMsg struct {
	Path string
}

// SetDefaultRootMsg marks or clears the download location
type SetDefaultRootMsg struct {
	Root    domain.InstallationRoot
	Default bool
}

// RemoveRootMsg asks for a location and its builds to be forgotten
type RemoveRootMsg struct {
	Root domain.InstallationRoot
}

// Locations lists the installation roots
type Locations struct {
	keys    Keys
	roots   []domain.InstallationRoot
	cursor  cursor
	editing bool
	input   textinput.Model
	width   int
	height  int
}

// NewLocations creates a new locations view
func NewLocations(keys Keys, roots []domain.InstallationRoot) Locations {
	ti := textinput.New()
	ti.Placeholder = "~/blender"
	ti.CharLimit = 1024
	ti.Width = 50

	m := Locations{keys: keys, input: ti, width: 80, height: 24}
	return m.WithRoots(roots)
}

// WithRoots replaces the list, keeping the selection where possible.
func (m Locations) WithRoots(roots []domain.InstallationRoot) Locations {
	m.roots = roots
	m.cursor.resize(len(roots))
	return m
}

// Selected returns the currently selected index
func (m Locations) Selected() int {
	return m.cursor.selected
}

// Count returns the number of locations
func (m Locations) Count() int {
	return len(m.roots)
}

// IsEditing reports whether the text input has focus
func (m Locations) IsEditing() bool {
	return m.editing
}

// SelectedRoot returns the currently selected location
func (m Locations) SelectedRoot() *domain.InstallationRoot {
	if len(m.roots) == 0 || m.cursor.selected >= len(m.roots) {
		return nil
	}
	return &m.roots[m.cursor.selected]
}

// Init implements tea.Model
func (m Locations) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Locations) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

func (m Locations) handleEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.keys.IsCancel(msg):
		m.editing = false
		m.input.Reset()
		m.input.Blur()
		return m, nil

	case msg.Type == tea.KeyEnter:
		path := strings.TrimSpace(m.input.Value())
		if path == "" {
			return m, nil
		}
		m.editing = false
		m.input.Reset()
		m.input.Blur()
		return m, emit(AddRootMsg{Path: path})

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Locations) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "n" {
		m.editing = true
		m.input.Focus()
		return m, textinput.Blink
	}
	if m.cursor.move(m.keys, msg) {
		return m, nil
	}

	root := m.SelectedRoot()
	if root == nil {
		return m, nil
	}

	switch {
	case m.keys.IsConfirm(msg), msg.String() == "D":
		return m, emit(SetDefaultRootMsg{Root: *root, Default: !root.IsDefault})
	case m.keys.IsDelete(msg):
		return m, emit(RemoveRootMsg{Root: *root})
	}
	return m, nil
}

// View implements tea.Model
func (m Locations) View() string {
	output := titleStyle.Render("Installation Locations") + "\n"
	output += infoStyle.Render("Builds are discovered in these folders; downloads go to the default one.") + "\n\n"

	if m.editing {
		output += "Folder: " + m.input.View() + "\n\n"
		output += infoStyle.Render("enter: add  esc: cancel")
		return output
	}

	if len(m.roots) == 0 {
		output += itemStyle.Render("No installation locations.") + "\n\n"
		output += infoStyle.Render("Press 'n' to add a folder.") + "\n"
		return output
	}

	for i, r := range m.roots {
		output += row(i == m.cursor.selected, r.DirectoryPath+defaultTag(r.IsDefault))
	}

	output += helpStyle.Render("n: new  enter/D: toggle default  d: remove")
	return output
}
