package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/JJeris/blendio/internal/core"
	"github.com/JJeris/blendio/internal/domain"
	"github.com/JJeris/blendio/internal/interact"
	"github.com/JJeris/blendio/internal/storage/db"
	"github.com/JJeris/blendio/internal/tui/views"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ViewType represents different screens in the TUI
type ViewType int

const (
	ViewBuilds ViewType = iota
	ViewProjects
	ViewArguments
	ViewLocations
)

var tabNames = []string{"[1]Builds", "[2]Projects", "[3]Arguments", "[4]Locations"}

// dataLoadedMsg carries a fresh copy of every list
type dataLoadedMsg struct {
	builds   []domain.InstalledBuild
	projects []domain.ProjectFile
	args     []domain.LaunchArgument
	roots    []domain.InstallationRoot
	err      error
}

// actionDoneMsg reports the outcome of a backend call
type actionDoneMsg struct {
	status string
	err    error
}

// pendingAction is a destructive step waiting for y/n
type pendingAction struct {
	prompt string
	run    tea.Cmd
}

// App is the main TUI application model
type App struct {
	backend     Backend
	ctx         context.Context
	keys        *KeyMap
	currentView ViewType
	width       int
	height      int
	status      string
	err         error
	pending     *pendingAction
	showHelp    bool

	builds    views.Builds
	projects  views.Projects
	arguments views.Arguments
	locations views.Locations
}

// NewApp creates a new TUI application
func NewApp(ctx context.Context, backend Backend, keys *KeyMap) App {
	if keys == nil {
		keys = NewKeyMap("")
	}
	return App{
		backend:     backend,
		ctx:         ctx,
		keys:        keys,
		currentView: ViewBuilds,
		width:       80,
		height:      24,
		builds:      views.NewBuilds(keys, nil),
		projects:    views.NewProjects(keys, nil),
		arguments:   views.NewArguments(keys, nil),
		locations:   views.NewLocations(keys, nil),
	}
}

// CurrentView returns the current view type
func (a App) CurrentView() ViewType {
	return a.currentView
}

// Status returns the last status line
func (a App) Status() string {
	return a.status
}

// Err returns the last error shown
func (a App) Err() error {
	return a.err
}

// Pending returns the prompt awaiting confirmation, or "".
func (a App) Pending() string {
	if a.pending == nil {
		return ""
	}
	return a.pending.prompt
}

// Init implements tea.Model
func (a App) Init() tea.Cmd {
	return a.load()
}

func (a App) load() tea.Cmd {
	ctx, backend := a.ctx, a.backend
	return func() tea.Msg {
		var msg dataLoadedMsg
		var err error
		if msg.builds, err = backend.InstalledBuilds(ctx, db.Filter{}); err != nil {
			return dataLoadedMsg{err: err}
		}
		if msg.projects, err = backend.ProjectFiles(ctx, db.Filter{}); err != nil {
			return dataLoadedMsg{err: err}
		}
		if msg.args, err = backend.LaunchArguments(ctx, db.Filter{}); err != nil {
			return dataLoadedMsg{err: err}
		}
		if msg.roots, err = backend.InstallationRoots(ctx, db.Filter{}); err != nil {
			return dataLoadedMsg{err: err}
		}
		return msg
	}
}

// do runs fn off the event loop and reports its outcome
func (a App) do(fn func(ctx context.Context, b Backend) (string, error)) tea.Cmd {
	ctx, backend := a.ctx, a.backend
	return func() tea.Msg {
		status, err := fn(ctx, backend)
		return actionDoneMsg{status: status, err: err}
	}
}

func (a App) ask(prompt string, run tea.Cmd) (tea.Model, tea.Cmd) {
	a.pending = &pendingAction{prompt: prompt, run: run}
	return a, nil
}

// Update implements tea.Model
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.pending != nil {
			return a.answer(msg)
		}
		return a.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a.broadcast(msg), nil

	case dataLoadedMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.builds = a.builds.WithBuilds(msg.builds)
		a.projects = a.projects.WithProjects(msg.projects)
		a.arguments = a.arguments.WithArguments(msg.args)
		a.locations = a.locations.WithRoots(msg.roots)
		return a, nil

	case actionDoneMsg:
		switch {
		case errors.Is(msg.err, context.Canceled):
			a.status, a.err = "Cancelled", nil
		case msg.err != nil:
			a.status, a.err = "", msg.err
		default:
			a.status, a.err = msg.status, nil
		}
		return a, a.load()
	}

	if model, cmd, ok := a.handleViewMsg(msg); ok {
		return model, cmd
	}

	// Delegate to current view's model
	return a.updateCurrentView(msg)
}

// answer resolves a y/N prompt. Keys other than y, n, esc and ctrl+c leave it open.
func (a App) answer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "y" || msg.String() == "Y":
		run := a.pending.run
		a.pending = nil
		a.status = "Working..."
		return a, run
	case msg.String() == "n" || msg.String() == "N" || a.keys.IsCancel(msg) || msg.Type == tea.KeyCtrlC:
		a.pending = nil
		a.status = "Cancelled"
	}
	return a, nil
}

// Editing reports whether the current view has a focused text input.
func (a App) Editing() bool {
	switch a.currentView {
	case ViewArguments:
		return a.arguments.IsEditing()
	case ViewLocations:
		return a.locations.IsEditing()
	}
	return false
}

func (a App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.Editing() {
		return a.updateCurrentView(msg)
	}

	// Global keybindings
	if a.keys.IsQuit(msg) {
		return a, tea.Quit
	}
	switch msg.String() {
	case "?":
		a.showHelp = !a.showHelp
		return a, nil
	case "1", "2", "3", "4":
		a.currentView = ViewType(msg.String()[0] - '1')
		return a, nil
	}
	switch {
	case a.keys.IsLeft(msg):
		a.currentView = (a.currentView + ViewType(len(tabNames)) - 1) % ViewType(len(tabNames))
		return a, nil
	case a.keys.IsRight(msg):
		a.currentView = (a.currentView + 1) % ViewType(len(tabNames))
		return a, nil
	}

	// Delegate to current view
	return a.updateCurrentView(msg)
}

// handleViewMsg turns the messages emitted by views into backend calls.
func (a App) handleViewMsg(msg tea.Msg) (tea.Model, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case views.RefreshBuildsMsg:
		a.status = "Scanning installation locations..."
		return a, a.do(func(ctx context.Context, b Backend) (string, error) {
			res, err := b.RefreshInstalledBuilds(ctx)
			return fmt.Sprintf("Builds: %d added, %d removed", res.Added, res.Removed), err
		}), true

	case views.LaunchBuildMsg:
		build := msg.Build
		a.status = "Running " + build.DisplayName() + "..."
		return a, a.do(func(ctx context.Context, b Backend) (string, error) {
			req := core.LaunchRequest{BuildID: build.ID}
			arg, err := b.DefaultLaunchArgument(ctx)
			if err != nil {
				return "", err
			}
			if arg != nil {
				req.LaunchArgumentID = arg.ID
			}
			return build.DisplayName() + " exited", b.LaunchBuild(ctx, req)
		}), true

	case views.SetDefaultBuildMsg:
		build := msg.Build
		return a, a.do(func(ctx context.Context, b Backend) (string, error) {
			return defaultStatus(build.DisplayName(), msg.Default), b.SetBuildDefault(ctx, build.ID, msg.Default)
		}), true

	case views.UninstallBuildMsg:
		build := msg.Build
		model, cmd := a.ask(fmt.Sprintf("Uninstall %s and delete %s?", build.DisplayName(), build.InstallationDirectoryPath),
			a.do(func(ctx context.Context, b Backend) (string, error) {
				return "Uninstalled " + build.DisplayName(), b.UninstallBuild(ctx, build.ID)
			}))
		return model, cmd, true

	case views.RefreshProjectsMsg:
		a.status = "Reading recent files..."
		return a, a.do(func(ctx context.Context, b Backend) (string, error) {
			res, err := b.RefreshProjectFiles(ctx)
			return fmt.Sprintf("Projects: %d added, %d removed", res.Added, res.Removed), err
		}), true

	case views.OpenProjectMsg:
		project := msg.Project
		a.status = "Opening " + project.FileName + "..."
		return a, a.do(func(ctx context.Context, b Backend) (string, error) {
			var req core.LaunchRequest
			arg, err := b.DefaultLaunchArgument(ctx)
			if err != nil {
				return "", err
			}
			if arg != nil {
				req.LaunchArgumentID = arg.ID
			}
			return "Closed " + project.FileName, b.OpenProjectFile(ctx, project.ID, req)
		}), true

	case views.RevealProjectMsg:
		project := msg.Project
		return a, a.do(func(ctx context.Context, b Backend) (string, error) {
			return "Opened folder of " + project.FileName, b.RevealProjectFile(ctx, project.ID)
		}), true

	case views.ArchiveProjectMsg:
		project := msg.Project
		a.status = "Archiving " + project.FileName + "..."
		return a, a.do(func(ctx context.Context, b Backend) (string, error) {
			path, err := b.ArchiveProjectFile(ctx, project.ID)
			return "Archived to " + path, err
		}), true

	case views.RemoveProjectMsg:
		project := msg.Project
		model, cmd := a.ask(fmt.Sprintf("Delete %s from disk?", project.FilePath),
			a.do(func(ctx context.Context, b Backend) (string, error) {
				return "Deleted " + project.FileName, b.RemoveProjectFile(ctx, project.ID)
			}))
		return model, cmd, true

	case views.AddArgumentMsg:
		text := msg.Text
		return a, a.do(func(ctx context.Context, b Backend) (string, error) {
			_, err := b.AddLaunchArgument(ctx, text, "", "")
			return "Saved " + text, err
		}), true

	case views.SetDefaultArgumentMsg:
		arg := msg.Argument
		return a, a.do(func(ctx context.Context, b Backend) (string, error) {
			return defaultStatus(arg.ArgumentString, msg.Default), b.SetLaunchArgumentDefault(ctx, arg.ID, msg.Default)
		}), true

	case views.RemoveArgumentMsg:
		arg := msg.Argument
		model, cmd := a.ask(fmt.Sprintf("Delete launch argument %q?", arg.ArgumentString),
			a.do(func(ctx context.Context, b Backend) (string, error) {
				return "Deleted " + arg.ArgumentString, b.RemoveLaunchArgument(ctx, arg.ID)
			}))
		return model, cmd, true

	case views.AddRootMsg:
		path := msg.Path
		return a, a.do(func(ctx context.Context, b Backend) (string, error) {
			root, err := b.AddInstallationRoot(ctx, path)
			if err != nil {
				return "", err
			}
			return "Added " + root.DirectoryPath, nil
		}), true

	case views.SetDefaultRootMsg:
		root := msg.Root
		return a, a.do(func(ctx context.Context, b Backend) (string, error) {
			return defaultStatus(root.DirectoryPath, msg.Default), b.SetInstallationRootDefault(ctx, root.ID, msg.Default)
		}), true

	case views.RemoveRootMsg:
		root := msg.Root
		model, cmd := a.ask(fmt.Sprintf("Forget %s and the builds inside it? Nothing is deleted from disk.", root.DirectoryPath),
			a.do(func(ctx context.Context, b Backend) (string, error) {
				return "Removed " + root.DirectoryPath, b.RemoveInstallationRoot(ctx, root.ID)
			}))
		return model, cmd, true
	}
	return a, nil, false
}

func defaultStatus(name string, isDefault bool) string {
	if isDefault {
		return name + " is now the default"
	}
	return name + " is no longer the default"
}

func (a App) broadcast(msg tea.Msg) App {
	var m tea.Model
	m, _ = a.builds.Update(msg)
	a.builds = m.(views.Builds)
	m, _ = a.projects.Update(msg)
	a.projects = m.(views.Projects)
	m, _ = a.arguments.Update(msg)
	a.arguments = m.(views.Arguments)
	m, _ = a.locations.Update(msg)
	a.locations = m.(views.Locations)
	return a
}

func (a App) updateCurrentView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var m tea.Model
	var cmd tea.Cmd

	switch a.currentView {
	case ViewBuilds:
		m, cmd = a.builds.Update(msg)
		a.builds = m.(views.Builds)
	case ViewProjects:
		m, cmd = a.projects.Update(msg)
		a.projects = m.(views.Projects)
	case ViewArguments:
		m, cmd = a.arguments.Update(msg)
		a.arguments = m.(views.Arguments)
	case ViewLocations:
		m, cmd = a.locations.Update(msg)
		a.locations = m.(views.Locations)
	}

	return a, cmd
}

// View implements tea.Model
func (a App) View() string {
	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		MarginBottom(1)

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	activeTabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	// Header
	header := titleStyle.Render("blendio - Blender Manager")

	// Tab bar
	tabBar := ""
	for i, tab := range tabNames {
		if ViewType(i) == a.currentView {
			tabBar += activeTabStyle.Render(tab) + "  "
		} else {
			tabBar += tabStyle.Render(tab) + "  "
		}
	}

	// Content
	content := a.renderCurrentView()
	if a.showHelp {
		content = a.keys.FullHelp()
	}

	// Status line
	statusLine := ""
	switch {
	case a.pending != nil:
		promptStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
		statusLine = promptStyle.Render(a.pending.prompt + " [y/N]")
	case a.err != nil:
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		statusLine = errStyle.Render(fmt.Sprintf("Error: %v", a.err))
	case a.status != "":
		statusLine = tabStyle.Render(a.status)
	}

	// Footer
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MarginTop(1)
	footer := footerStyle.Render("q: quit  ?: help  " + a.keys.NavigationHelp())

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n%s", header, tabBar, content, statusLine, footer)
}

func (a App) renderCurrentView() string {
	switch a.currentView {
	case ViewBuilds:
		return a.builds.View()
	case ViewProjects:
		return a.projects.View()
	case ViewArguments:
		return a.arguments.View()
	case ViewLocations:
		return a.locations.View()
	default:
		return "Unknown view"
	}
}

// Run starts the TUI application. Prompts raised by the service are
// answered by the TUI itself, so the service gets a UI that never blocks.
func Run(ctx context.Context, service *core.Service) error {
	service.SetUI(interact.NewHeadless(io.Discard, true))
	app := NewApp(ctx, service, NewKeyMap(service.Config().Keybindings))
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
