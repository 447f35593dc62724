package core_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JJeris/blendio/internal/core"
	"github.com/JJeris/blendio/internal/domain"
	"github.com/JJeris/blendio/internal/storage/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleArguments(t *testing.T) {
	tests := []struct {
		name      string
		leading   string
		argString string
		script    string
		want      []string
	}{
		{
			name:      "all parts",
			leading:   "/tmp/proj.blend",
			argString: "--factory-startup --no-win",
			script:    "/tmp/s.py",
			want:      []string{"/tmp/proj.blend", "--factory-startup", "--no-win", "--python", "/tmp/s.py"},
		},
		{
			name:      "python flag already present",
			argString: "--python /tmp/a.py",
			script:    "/tmp/b.py",
			want:      []string{"--python", "/tmp/a.py", "/tmp/b.py"},
		},
		{
			name:      "extra whitespace",
			argString: "  --background\t --debug  ",
			want:      []string{"--background", "--debug"},
		},
		{
			name: "nothing",
			want: []string{},
		},
		{
			name:    "leading only",
			leading: "/tmp/proj.blend",
			want:    []string{"/tmp/proj.blend"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, core.AssembleArguments(tt.leading, tt.argString, tt.script))
		})
	}
}

// launchFixture registers one build, argument and script.
type launchFixture struct {
	*env
	build    *domain.InstalledBuild
	argID    string
	scriptID string
	script   string
}

func newLaunchFixture(t *testing.T) *launchFixture {
	t.Helper()
	ctx := context.Background()
	e := newEnv(t, "")

	exe := makeBuildDir(t, t.TempDir(), "blender-4.1.0-stable")
	build, err := e.svc.AddInstalledBuild(ctx, exe)
	require.NoError(t, err)

	argID, err := e.svc.AddLaunchArgument(ctx, "--factory-startup --no-win", "", "")
	require.NoError(t, err)

	script := writeFile(t, filepath.Join(t.TempDir(), "s.py"), "print('hi')\n")
	scriptID, err := e.svc.AddPythonScript(ctx, script)
	require.NoError(t, err)

	return &launchFixture{env: e, build: build, argID: argID, scriptID: scriptID, script: script}
}

func TestLaunchBuild(t *testing.T) {
	ctx := context.Background()
	f := newLaunchFixture(t)

	err := f.svc.LaunchBuild(ctx, core.LaunchRequest{
		BuildID:          f.build.ID,
		LaunchArgumentID: f.argID,
		ScriptID:         f.scriptID,
	})
	require.NoError(t, err)

	require.Len(t, f.runner.calls, 1)
	assert.Equal(t, f.build.ExecutableFilePath, f.runner.calls[0].name)
	assert.Equal(t, []string{"--factory-startup", "--no-win", "--python", f.script}, f.runner.calls[0].args)

	builds, err := f.svc.InstalledBuilds(ctx, db.Filter{ID: f.build.ID})
	require.NoError(t, err)
	require.Len(t, builds, 1)
	assert.True(t, builds[0].Accessed.After(f.build.Accessed))
}

func TestLaunchBuild_UsesDefault(t *testing.T) {
	ctx := context.Background()
	f := newLaunchFixture(t)

	err := f.svc.LaunchBuild(ctx, core.LaunchRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.runner.calls)

	require.NoError(t, f.svc.SetBuildDefault(ctx, f.build.ID, true))
	require.NoError(t, f.svc.LaunchBuild(ctx, core.LaunchRequest{}))

	require.Len(t, f.runner.calls, 1)
	assert.Equal(t, f.build.ExecutableFilePath, f.runner.calls[0].name)
	assert.Empty(t, f.runner.calls[0].args)
}

func TestLaunchBuild_MissingEntities(t *testing.T) {
	ctx := context.Background()
	f := newLaunchFixture(t)

	tests := []struct {
		name string
		req  core.LaunchRequest
	}{
		{"build", core.LaunchRequest{BuildID: "missing"}},
		{"argument", core.LaunchRequest{BuildID: f.build.ID, LaunchArgumentID: "missing"}},
		{"script", core.LaunchRequest{BuildID: f.build.ID, ScriptID: "missing"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.LaunchBuild(ctx, tt.req)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
	assert.Empty(t, f.runner.calls)
}

func TestLaunchBuild_ProcessFailure(t *testing.T) {
	f := newLaunchFixture(t)
	f.runner.onRun = func(string, []string) error {
		return domain.E(domain.KindProcessLaunch, "running blender", errors.New("exit status 1"))
	}

	err := f.svc.LaunchBuild(context.Background(), core.LaunchRequest{BuildID: f.build.ID})
	assert.ErrorIs(t, err, domain.ErrProcessLaunch)
	assert.Len(t, f.ui.errors(), 1)
}

func TestOpenProjectFile(t *testing.T) {
	ctx := context.Background()
	f := newLaunchFixture(t)

	blend := writeFile(t, filepath.Join(t.TempDir(), "proj.blend"), "BLENDER")
	project, err := f.svc.AddProjectFile(ctx, blend)
	require.NoError(t, err)

	err = f.svc.OpenProjectFile(ctx, project.ID, core.LaunchRequest{
		BuildID:          f.build.ID,
		LaunchArgumentID: f.argID,
		ScriptID:         f.scriptID,
	})
	require.NoError(t, err)

	require.Len(t, f.runner.calls, 1)
	assert.Equal(t, []string{blend, "--factory-startup", "--no-win", "--python", f.script}, f.runner.calls[0].args)

	projects, err := f.svc.ProjectFiles(ctx, db.Filter{ID: project.ID})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, f.build.ID, projects[0].LastUsedBuildID)

	args, err := f.svc.LaunchArguments(ctx, db.Filter{ID: f.argID})
	require.NoError(t, err)
	require.Len(t, args, 1)
	assert.Equal(t, project.ID, args[0].LastUsedProjectFileID)
	assert.Equal(t, f.scriptID, args[0].LastUsedPythonScriptID)

	// without a build the project's last used build is picked
	require.NoError(t, f.svc.OpenProjectFile(ctx, project.ID, core.LaunchRequest{}))
	require.Len(t, f.runner.calls, 2)
	assert.Equal(t, f.build.ExecutableFilePath, f.runner.calls[1].name)
	assert.Equal(t, []string{blend}, f.runner.calls[1].args)
}

func TestOpenProjectFile_Missing(t *testing.T) {
	f := newLaunchFixture(t)

	err := f.svc.OpenProjectFile(context.Background(), "missing", core.LaunchRequest{BuildID: f.build.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.runner.calls)
}

func TestCreateProjectFile(t *testing.T) {
	ctx := context.Background()
	f := newLaunchFixture(t)
	dir := t.TempDir()

	f.runner.onRun = func(_ string, args []string) error {
		// stand in for Blender saving the file
		expr := args[len(args)-1]
		start := strings.Index(expr, "filepath=") + len("filepath=\"")
		path := expr[start : len(expr)-2]
		return os.WriteFile(path, []byte("BLENDER"), 0644)
	}

	project, err := f.svc.CreateProjectFile(ctx, f.build.ID, dir, "scene")
	require.NoError(t, err)

	want := filepath.Join(dir, "scene.blend")
	assert.Equal(t, want, project.FilePath)
	assert.Equal(t, "scene.blend", project.FileName)
	assert.Equal(t, f.build.ID, project.LastUsedBuildID)
	assert.FileExists(t, want)

	require.Len(t, f.runner.calls, 1)
	assert.Equal(t, []string{"--background", "--python-expr"}, f.runner.calls[0].args[:2])

	// the target now exists
	_, err = f.svc.CreateProjectFile(ctx, f.build.ID, dir, "scene.blend")
	assert.ErrorIs(t, err, domain.ErrFilesystem)
	assert.Len(t, f.runner.calls, 1)
}

func TestCreateProjectFile_NoFolderSelected(t *testing.T) {
	f := newLaunchFixture(t)

	p, err := f.svc.CreateProjectFile(context.Background(), f.build.ID, "", "scene")
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Empty(t, f.runner.calls)
	assert.Empty(t, f.ui.errors())
}
