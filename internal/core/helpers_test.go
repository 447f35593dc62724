package core_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/JJeris/blendio/internal/core"
	"github.com/JJeris/blendio/internal/domain"

	"github.com/stretchr/testify/require"
)

type notice struct {
	level   core.NoticeLevel
	message string
}

// fakeUI answers prompts from fields and records notices
type fakeUI struct {
	mu       sync.Mutex
	confirm  bool
	file     string
	folder   string
	asked    []string
	notices  []notice
	pickExts []string
}

func (u *fakeUI) Confirm(_ context.Context, title, _ string) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.asked = append(u.asked, title)
	return u.confirm, nil
}

func (u *fakeUI) Notify(_ context.Context, level core.NoticeLevel, message string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.notices = append(u.notices, notice{level, message})
}

func (u *fakeUI) PickFile(_ context.Context, _ string, exts []string) (string, error) {
	u.pickExts = exts
	return u.file, nil
}

func (u *fakeUI) PickFolder(context.Context, string) (string, error) {
	return u.folder, nil
}

func (u *fakeUI) errors() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	var out []string
	for _, n := range u.notices {
		if n.level == core.NoticeError {
			out = append(out, n.message)
		}
	}
	return out
}

type call struct {
	name string
	args []string
}

// fakeRunner records processes instead of starting them
type fakeRunner struct {
	mu      sync.Mutex
	calls   []call
	reveals []string
	onRun   func(name string, args []string) error
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) error {
	r.mu.Lock()
	r.calls = append(r.calls, call{name, args})
	onRun := r.onRun
	r.mu.Unlock()
	if onRun != nil {
		return onRun(name, args)
	}
	return nil
}

func (r *fakeRunner) Reveal(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reveals = append(r.reveals, path)
	return nil
}

// tickingClock returns a clock that advances one second per reading.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

type env struct {
	svc       *core.Service
	ui        *fakeUI
	runner    *fakeRunner
	configDir string
}

func newEnv(t *testing.T, configYAML string) *env {
	t.Helper()
	t.Setenv("BLENDIO_FEED_URL", "")

	configDir := t.TempDir()
	if configYAML != "" {
		require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configYAML), 0644))
	}

	ui := &fakeUI{confirm: true}
	runner := &fakeRunner{}
	svc, err := core.NewService(core.ServiceConfig{
		ConfigDir:    configDir,
		DatabasePath: ":memory:",
		UI:           ui,
		Runner:       runner,
		Clock:        tickingClock(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	return &env{svc: svc, ui: ui, runner: runner, configDir: configDir}
}

// makeBuildDir creates root/name containing a launcher file.
func makeBuildDir(t *testing.T, root, name string) string {
	t.Helper()
	exe := filepath.Join(root, name, domain.LauncherFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(exe), 0755))
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0755))
	return exe
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
