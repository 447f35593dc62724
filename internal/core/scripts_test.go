package core_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/JJeris/blendio/internal/domain"
	"github.com/JJeris/blendio/internal/storage/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPythonScript_Dedup(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, "")
	path := writeFile(t, filepath.Join(t.TempDir(), "setup.py"), "import bpy\n")

	first, err := e.svc.AddPythonScript(ctx, path)
	require.NoError(t, err)
	second, err := e.svc.AddPythonScript(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	scripts, err := e.svc.PythonScripts(ctx, db.Filter{})
	require.NoError(t, err)
	require.Len(t, scripts, 1)
	assert.Equal(t, path, scripts[0].ScriptFilePath)
	assert.True(t, scripts[0].Accessed.After(scripts[0].Created), "second add touches the row")
}

func TestAddPythonScript_Picker(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, "")

	id, err := e.svc.AddPythonScript(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, id, "dismissing the picker saves nothing")
	assert.Equal(t, []string{".py"}, e.ui.pickExts)
	assert.Empty(t, e.ui.errors())

	e.ui.file = filepath.Join(t.TempDir(), "missing.py")
	_, err = e.svc.AddPythonScript(ctx, "")
	assert.ErrorIs(t, err, domain.ErrFilesystem)

	e.ui.file = writeFile(t, filepath.Join(t.TempDir(), "picked.py"), "")
	id, err = e.svc.AddPythonScript(ctx, "")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestAddPythonScript_MissingFile(t *testing.T) {
	e := newEnv(t, "")

	_, err := e.svc.AddPythonScript(context.Background(), filepath.Join(t.TempDir(), "nope.py"))
	require.Error(t, err)
	assert.Equal(t, domain.KindFilesystem, domain.KindOf(err))
	assert.Len(t, e.ui.errors(), 1)
}

func TestRemovePythonScript(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, "")
	path := writeFile(t, filepath.Join(t.TempDir(), "s.py"), "")
	id, err := e.svc.AddPythonScript(ctx, path)
	require.NoError(t, err)

	e.ui.confirm = false
	require.NoError(t, e.svc.RemovePythonScript(ctx, id))
	scripts, err := e.svc.PythonScripts(ctx, db.Filter{})
	require.NoError(t, err)
	assert.Len(t, scripts, 1, "declining keeps the script")

	e.ui.confirm = true
	require.NoError(t, e.svc.RemovePythonScript(ctx, id))
	assert.FileExists(t, path, "only the record is removed")

	scripts, err = e.svc.PythonScripts(ctx, db.Filter{})
	require.NoError(t, err)
	assert.Empty(t, scripts)

	assert.ErrorIs(t, e.svc.RemovePythonScript(ctx, id), domain.ErrNotFound)
}

func TestRevealPythonScript(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, "")
	path := writeFile(t, filepath.Join(t.TempDir(), "s.py"), "")
	id, err := e.svc.AddPythonScript(ctx, path)
	require.NoError(t, err)

	require.NoError(t, e.svc.RevealPythonScript(ctx, id))
	assert.Equal(t, []string{path}, e.runner.reveals)

	assert.ErrorIs(t, e.svc.RevealPythonScript(ctx, "missing"), domain.ErrNotFound)
}
