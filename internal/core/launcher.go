package core

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/JJeris/blendio/internal/domain"
)

// ProcessRunner starts external programs.
type ProcessRunner interface {
	// Run starts name with args and waits for it to exit.
	Run(ctx context.Context, name string, args ...string) error
	// Reveal opens the directory containing path in the file manager.
	Reveal(ctx context.Context, path string) error
}

// Launcher runs processes on the local machine
type Launcher struct {
	Stdout io.Writer // nil discards
	Stderr io.Writer // nil discards
}

// NewLauncher creates a Launcher that discards child output
func NewLauncher() *Launcher {
	return &Launcher{}
}

func (l *Launcher) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	if err := cmd.Start(); err != nil {
		return domain.E(domain.KindProcessLaunch, "starting "+filepath.Base(name), err)
	}
	if err := cmd.Wait(); err != nil {
		return domain.E(domain.KindProcessLaunch, "running "+filepath.Base(name), err)
	}
	return nil
}

// Reveal does not wait for the file manager to exit.
func (l *Launcher) Reveal(ctx context.Context, path string) error {
	name := revealCommand(runtime.GOOS)
	cmd := exec.CommandContext(context.WithoutCancel(ctx), name, filepath.Dir(path))
	if err := cmd.Start(); err != nil {
		return domain.E(domain.KindProcessLaunch, "revealing "+path, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func revealCommand(goos string) string {
	switch goos {
	case "windows":
		return "explorer"
	case "darwin":
		return "open"
	default:
		return "xdg-open"
	}
}

// commandLine renders a command for log output.
func commandLine(name string, args []string) string {
	return fmt.Sprintf("%s %q", name, args)
}
