// Package interact answers the prompts the core service raises, either on a
// terminal or without one.
package interact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/JJeris/blendio/internal/core"
	"github.com/JJeris/blendio/internal/domain"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Terminal prompts on the controlling terminal with huh forms
type Terminal struct {
	out    io.Writer
	theme  *huh.Theme
	styles noticeStyles
	// startDir is where file pickers open
	startDir string
	failed   atomic.Bool
}

// NewTerminal creates a Terminal writing notices to out. With noColor the
// notices and forms are rendered without colors.
func NewTerminal(out io.Writer, noColor bool) *Terminal {
	theme := huh.ThemeCatppuccin()
	if noColor {
		theme = huh.ThemeBase()
	}
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	return &Terminal{
		out:      out,
		theme:    theme,
		styles:   newNoticeStyles(noColor),
		startDir: dir,
	}
}

func (t *Terminal) run(ctx context.Context, field huh.Field) error {
	err := huh.NewForm(huh.NewGroup(field)).WithTheme(t.theme).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return domain.ErrCancelled
	}
	return err
}

func (t *Terminal) Confirm(ctx context.Context, title, message string) (bool, error) {
	var ok bool
	err := t.run(ctx, huh.NewConfirm().
		Title(title).
		Description(message).
		Affirmative("Yes").
		Negative("No").
		Value(&ok))
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (t *Terminal) Notify(_ context.Context, level core.NoticeLevel, message string) {
	fmt.Fprintln(t.out, t.styles.render(level, message))
	if level == core.NoticeError {
		t.failed.Store(true)
	}
}

// Reported reports whether an error notice has been written.
func (t *Terminal) Reported() bool {
	return t.failed.Load()
}

func (t *Terminal) PickFile(ctx context.Context, title string, exts []string) (string, error) {
	var path string
	picker := huh.NewFilePicker().
		Title(title).
		CurrentDirectory(t.startDir).
		FileAllowed(true).
		DirAllowed(false).
		Picking(true).
		Value(&path)
	if len(exts) > 0 {
		picker = picker.AllowedTypes(exts)
	}
	if err := t.run(ctx, picker); err != nil {
		return "", err
	}
	return path, nil
}

func (t *Terminal) PickFolder(ctx context.Context, title string) (string, error) {
	var path string
	picker := huh.NewFilePicker().
		Title(title).
		Description("Select a directory").
		CurrentDirectory(t.startDir).
		FileAllowed(false).
		DirAllowed(true).
		Picking(true).
		Value(&path)
	if err := t.run(ctx, picker); err != nil {
		return "", err
	}
	return path, nil
}

type noticeStyles struct {
	info    lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
}

func newNoticeStyles(noColor bool) noticeStyles {
	if noColor {
		plain := lipgloss.NewStyle()
		return noticeStyles{info: plain, warning: plain, err: plain}
	}
	return noticeStyles{
		info:    lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		err:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
}

func (s noticeStyles) render(level core.NoticeLevel, message string) string {
	switch level {
	case core.NoticeError:
		return s.err.Render("Error: " + message)
	case core.NoticeWarning:
		return s.warning.Render("Warning: " + message)
	default:
		return s.info.Render(message)
	}
}
