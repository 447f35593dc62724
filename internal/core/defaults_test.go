package core_test

import (
	"context"
	"testing"

	"github.com/JJeris/blendio/internal/domain"
	"github.com/JJeris/blendio/internal/storage/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countDefaultArgs(t *testing.T, e *env) (int, string) {
	t.Helper()
	args, err := e.svc.LaunchArguments(context.Background(), db.Filter{})
	require.NoError(t, err)
	n, id := 0, ""
	for _, a := range args {
		if a.IsDefault {
			n++
			id = a.ID
		}
	}
	return n, id
}

func TestSetDefault_AtMostOne(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, "")

	var ids []string
	for _, s := range []string{"--factory-startup", "--no-win", "--debug-python"} {
		id, err := e.svc.AddLaunchArgument(ctx, s, "", "")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	steps := []struct {
		id   string
		want bool
	}{
		{ids[0], true},
		{ids[1], true},
		{ids[1], true},
		{ids[2], true},
		{ids[2], false},
		{ids[0], true},
		{ids[0], false},
		{ids[1], false},
	}
	for _, step := range steps {
		require.NoError(t, e.svc.SetLaunchArgumentDefault(ctx, step.id, step.want))
		n, id := countDefaultArgs(t, e)
		assert.LessOrEqual(t, n, 1)
		if step.want {
			assert.Equal(t, step.id, id)
		}
	}

	n, _ := countDefaultArgs(t, e)
	assert.Zero(t, n)
}

func TestSetDefault_UnknownIDClearsAll(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, "")

	id, err := e.svc.AddLaunchArgument(ctx, "--factory-startup", "", "")
	require.NoError(t, err)
	require.NoError(t, e.svc.SetLaunchArgumentDefault(ctx, id, true))

	require.NoError(t, e.svc.SetLaunchArgumentDefault(ctx, "does-not-exist", true))

	n, _ := countDefaultArgs(t, e)
	assert.Zero(t, n)
}

func TestSetDefault_ClearUnknownIsNotFound(t *testing.T) {
	e := newEnv(t, "")

	err := e.svc.SetBuildDefault(context.Background(), "missing", false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, e.ui.errors(), 1)
}

func TestSetDefault_ClearLeavesOthers(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, "")

	a, err := e.svc.AddInstallationRoot(ctx, t.TempDir())
	require.NoError(t, err)
	b, err := e.svc.AddInstallationRoot(ctx, t.TempDir())
	require.NoError(t, err)

	require.NoError(t, e.svc.SetInstallationRootDefault(ctx, b.ID, true))
	// clearing a row that is not the default does not touch the default
	require.NoError(t, e.svc.SetInstallationRootDefault(ctx, a.ID, false))

	root, err := e.svc.DownloadRoot(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.ID, root.ID)
}
