package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JJeris/blendio/internal/storage/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultValues(t *testing.T) {
	t.Setenv(config.FeedURLEnv, "")
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultFeedURL, cfg.FeedURL)
	assert.Equal(t, "vim", cfg.Keybindings)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.ConnectTimeout)
	assert.Empty(t, cfg.RecentFilesRoot)
}

func TestLoadConfig_FromFile(t *testing.T) {
	t.Setenv(config.FeedURLEnv, "")
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	content := `
feed_url: http://localhost:8080/feed.json
keybindings: standard
log_level: debug
connect_timeout: 2s
recent_files_root: /srv/blender-config
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/feed.json", cfg.FeedURL)
	assert.Equal(t, "standard", cfg.Keybindings)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, "/srv/blender-config", cfg.RecentFilesRoot)
}

func TestLoadConfig_EnvOverridesFeed(t *testing.T) {
	t.Setenv(config.FeedURLEnv, "http://mirror.example/feed")

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "http://mirror.example/feed", cfg.FeedURL)
}

func TestLoadConfig_InvalidKeybindings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("keybindings: emacs\n"), 0644))

	_, err := config.Load(dir)
	assert.ErrorContains(t, err, "invalid keybindings")
}

func TestLoadConfig_Malformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("feed_url: [unclosed\n"), 0644))

	_, err := config.Load(dir)
	assert.ErrorContains(t, err, "parsing config")
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv(config.FeedURLEnv, "")
	dir := filepath.Join(t.TempDir(), "nested")

	cfg := config.Default()
	cfg.Keybindings = "standard"
	cfg.ConnectTimeout = 3 * time.Second
	require.NoError(t, cfg.Save(dir))

	loaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSet(t *testing.T) {
	cfg := config.Default()

	require.NoError(t, cfg.Set("connect_timeout", "10s"))
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)

	require.NoError(t, cfg.Set("log_level", "info"))
	assert.Equal(t, "info", cfg.LogLevel)

	assert.Error(t, cfg.Set("keybindings", "emacs"))
	assert.ErrorContains(t, cfg.Set("nope", "x"), "unknown setting")
	assert.Error(t, cfg.Set("connect_timeout", "soon"))
}
