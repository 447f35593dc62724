package views

import (
	"strings"

	"github.com/JJeris/blendio/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
)

// OpenProjectMsg asks for a project to be opened in Blender
type OpenProjectMsg struct {
	Project domain.ProjectFile
}

// RevealProjectMsg asks for the project's folder to be shown
type RevealProjectMsg struct {
	Project domain.ProjectFile
}

// ArchiveProjectMsg asks for the project to be zipped
type ArchiveProjectMsg struct {
	Project domain.ProjectFile
}

// RemoveProjectMsg asks for the project to be deleted
type RemoveProjectMsg struct {
	Project domain.ProjectFile
}

// RefreshProjectsMsg asks for Blender's recent-files lists to be read again
type RefreshProjectsMsg struct{}

// Projects lists tracked .blend files
type Projects struct {
	keys     Keys
	projects []domain.ProjectFile
	cursor   cursor
	width    int
	height   int
}

// NewProjects creates a new projects view
func NewProjects(keys Keys, projects []domain.ProjectFile) Projects {
	m := Projects{keys: keys, width: 80, height: 24}
	return m.WithProjects(projects)
}

// WithProjects replaces the list, keeping the selection where possible.
func (m Projects) WithProjects(projects []domain.ProjectFile) Projects {
	m.projects = projects
	m.cursor.resize(len(projects))
	return m
}

// Selected returns the currently selected index
func (m Projects) Selected() int {
	return m.cursor.selected
}

// Count returns the number of projects
func (m Projects) Count() int {
	return len(m.projects)
}

// SelectedProject returns the currently selected project
func (m Projects) SelectedProject() *domain.ProjectFile {
	if len(m.projects) == 0 || m.cursor.selected >= len(m.projects) {
		return nil
	}
	return &m.projects[m.cursor.selected]
}

// Init implements tea.Model
func (m Projects) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Projects) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m Projects) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "r" {
		return m, emit(RefreshProjectsMsg{})
	}
	if m.cursor.move(m.keys, msg) {
		return m, nil
	}

	project := m.SelectedProject()
	if project == nil {
		return m, nil
	}

	switch {
	case m.keys.IsConfirm(msg):
		return m, emit(OpenProjectMsg{Project: *project})
	case msg.String() == "o":
		return m, emit(RevealProjectMsg{Project: *project})
	case msg.String() == "a":
		return m, emit(ArchiveProjectMsg{Project: *project})
	case m.keys.IsDelete(msg):
		return m, emit(RemoveProjectMsg{Project: *project})
	}
	return m, nil
}

// View implements tea.Model
func (m Projects) View() string {
	output := titleStyle.Render("Project Files") + "\n"

	if len(m.projects) == 0 {
		output += itemStyle.Render("No project files tracked.") + "\n\n"
		output += infoStyle.Render("Press 'r' to import Blender's recent files.") + "\n"
		return output
	}

	for i, p := range m.projects {
		selected := i == m.cursor.selected
		output += row(selected, p.FileName)
		if selected {
			output += detailStyle.Render(p.FilePath) + "\n"
			if series := p.Series(); len(series) > 0 {
				output += detailStyle.Render("Series: "+strings.Join(series, ", ")) + "\n"
			}
			output += "\n"
		}
	}

	output += helpStyle.Render("enter: open  o: show folder  a: archive  d: delete  r: refresh")
	return output
}
