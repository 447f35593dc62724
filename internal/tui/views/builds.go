package views

import (
	"fmt"

	"github.com/JJeris/blendio/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
)

// LaunchBuildMsg asks for a build to be started
type LaunchBuildMsg struct {
	Build domain.InstalledBuild
}

// SetDefaultBuildMsg marks or clears the default build
type SetDefaultBuildMsg struct {
	Build   domain.InstalledBuild
	Default bool
}

// UninstallBuildMsg asks for a build to be deleted from disk
type UninstallBuildMsg struct {
	Build domain.InstalledBuild
}

// RefreshBuildsMsg asks for the installation roots to be rescanned
type RefreshBuildsMsg struct{}

// Builds lists the installed builds
type Builds struct {
	keys   Keys
	builds []domain.InstalledBuild
	cursor cursor
	width  int
	height int
}

// NewBuilds creates a new builds view
func NewBuilds(keys Keys, builds []domain.InstalledBuild) Builds {
	m := Builds{keys: keys, width: 80, height: 24}
	return m.WithBuilds(builds)
}

// WithBuilds replaces the list, keeping the selection where possible.
func (m Builds) WithBuilds(builds []domain.InstalledBuild) Builds {
	m.builds = builds
	m.cursor.resize(len(builds))
	return m
}

// Selected returns the currently selected index
func (m Builds) Selected() int {
	return m.cursor.selected
}

// Count returns the number of builds
func (m Builds) Count() int {
	return len(m.builds)
}

// SelectedBuild returns the currently selected build
func (m Builds) SelectedBuild() *domain.InstalledBuild {
	if len(m.builds) == 0 || m.cursor.selected >= len(m.builds) {
		return nil
	}
	return &m.builds[m.cursor.selected]
}

// Init implements tea.Model
func (m Builds) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Builds) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m Builds) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "r" {
		return m, emit(RefreshBuildsMsg{})
	}
	if m.cursor.move(m.keys, msg) {
		return m, nil
	}

	build := m.SelectedBuild()
	if build == nil {
		return m, nil
	}

	switch {
	case m.keys.IsConfirm(msg):
		return m, emit(LaunchBuildMsg{Build: *build})
	case msg.String() == "D":
		return m, emit(SetDefaultBuildMsg{Build: *build, Default: !build.IsDefault})
	case m.keys.IsDelete(msg):
		return m, emit(UninstallBuildMsg{Build: *build})
	}
	return m, nil
}

// View implements tea.Model
func (m Builds) View() string {
	output := titleStyle.Render("Installed Builds") + "\n"

	if len(m.builds) == 0 {
		output += itemStyle.Render("No builds found.") + "\n\n"
		output += infoStyle.Render("Add a location with [4] and press 'r' to scan, or run 'blendio download'.") + "\n"
		return output
	}

	for i, b := range m.builds {
		selected := i == m.cursor.selected
		output += row(selected, b.DisplayName()+defaultTag(b.IsDefault))
		if selected {
			output += detailStyle.Render(b.ExecutableFilePath) + "\n"
			if b.DownloadURL != "" {
				output += detailStyle.Render("From: "+b.DownloadURL) + "\n"
			}
			if !b.Accessed.IsZero() {
				output += detailStyle.Render(fmt.Sprintf("Last used: %s", b.Accessed.Local().Format("2006-01-02 15:04"))) + "\n"
			}
			output += "\n"
		}
	}

	output += helpStyle.Render("enter: launch  D: toggle default  d: uninstall  r: rescan")
	return output
}
