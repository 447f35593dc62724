package core_test

import (
	"archive/zip"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/JJeris/blendio/internal/core"
	"github.com/JJeris/blendio/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestZip(t *testing.T, dir, name string, files map[string]string) string {
	t.Helper()
	zipPath := filepath.Join(dir, name)
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return zipPath
}

func TestExtractor_Extract_Zip(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()

	files := map[string]string{
		"readme.txt":            "This is a readme file",
		"blender-4.1/blender":   "launcher",
		"blender-4.1/4.1/a.txt": "nested file content",
	}
	zipPath := createTestZip(t, srcDir, "test.zip", files)

	extractor := core.NewExtractor()
	err := extractor.Extract(context.Background(), zipPath, destDir)
	require.NoError(t, err)

	for name, want := range files {
		content, err := os.ReadFile(filepath.Join(destDir, name))
		require.NoError(t, err)
		assert.Equal(t, want, string(content))
	}
}

func TestExtractor_ExtractBeside(t *testing.T) {
	srcDir := t.TempDir()
	zipPath := createTestZip(t, srcDir, "blender-4.1.1-stable.zip", map[string]string{
		"blender-4.1.1-stable/blender": "launcher",
	})

	dir, err := core.NewExtractor().ExtractBeside(context.Background(), zipPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(srcDir, "blender-4.1.1-stable"), dir)
	assert.FileExists(t, filepath.Join(dir, "blender"))
	// the archive itself is left for the caller
	assert.FileExists(t, zipPath)
}

func TestExtractor_Extract_ZipWithDirectories(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()

	zipPath := filepath.Join(srcDir, "test.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	_, err = w.Create("subdir/")
	require.NoError(t, err)
	fw, err := w.Create("subdir/file.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("content"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	f.Close()

	err = core.NewExtractor().Extract(context.Background(), zipPath, destDir)
	require.NoError(t, err)

	assert.DirExists(t, filepath.Join(destDir, "subdir"))
	content, err := os.ReadFile(filepath.Join(destDir, "subdir", "file.txt"))
	require.NoError(t, err)
	assert.Equal(t, "content", string(content))
}

func TestExtractor_Extract_Errors(t *testing.T) {
	srcDir := t.TempDir()

	invalid := filepath.Join(srcDir, "invalid.zip")
	require.NoError(t, os.WriteFile(invalid, []byte("not a zip file"), 0644))

	unsupported := filepath.Join(srcDir, "blender.dmg")
	require.NoError(t, os.WriteFile(unsupported, []byte("dmg"), 0644))

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(srcDir, "nope.zip")},
		{"not a zip", invalid},
		{"unsupported format", unsupported},
	}

	extractor := core.NewExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := extractor.Extract(context.Background(), tt.path, t.TempDir())
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrArchive)
		})
	}
}

func TestExtractor_Extract_TruncatedZip(t *testing.T) {
	srcDir := t.TempDir()

	zipPath := filepath.Join(srcDir, "truncated.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	fw, err := w.Create("file.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("content"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	info, err := f.Stat()
	require.NoError(t, err)
	// drop the central directory, as an interrupted download would
	require.NoError(t, f.Truncate(info.Size()/2))
	f.Close()

	err = core.NewExtractor().Extract(context.Background(), zipPath, t.TempDir())
	assert.ErrorIs(t, err, domain.ErrArchive)
}

func TestExtractor_CanExtract(t *testing.T) {
	extractor := core.NewExtractor()

	tests := []struct {
		filename string
		expected bool
	}{
		{"blender.zip", true},
		{"blender.ZIP", true},
		{"blender-4.1.0-linux-x64.tar.xz", true},
		{"blender.TAR.XZ", true},
		{"blender.dmg", false},
		{"blender.tar.gz", false},
		{"blender", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractor.CanExtract(tt.filename))
		})
	}
}

func TestExtractor_DetectFormat(t *testing.T) {
	extractor := core.NewExtractor()

	assert.Equal(t, core.FormatZip, extractor.DetectFormat("blender.zip"))
	assert.Equal(t, core.FormatTarXz, extractor.DetectFormat("blender.tar.xz"))
	assert.Equal(t, "", extractor.DetectFormat("blender.xz"))
}

func TestStem(t *testing.T) {
	tests := map[string]string{
		"blender-4.1.0-stable.zip":                            "blender-4.1.0-stable",
		"/tmp/blender-4.2.0-beta+v42.abc-linux.x86_64.tar.xz": "blender-4.2.0-beta+v42.abc-linux.x86_64",
		"blender-4.1.0-macos-arm64.DMG":                       "blender-4.1.0-macos-arm64",
		"scene.blend":                                         "scene",
	}
	for in, want := range tests {
		assert.Equal(t, want, core.Stem(in), in)
	}
}

func TestExtractor_Extract_ZipSlipPrevention(t *testing.T) {
	srcDir := t.TempDir()
	destDir := filepath.Join(t.TempDir(), "dest")

	zipPath := filepath.Join(srcDir, "malicious.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	fw, err := w.CreateHeader(&zip.FileHeader{
		Name:   "../escaped.txt",
		Method: zip.Store,
	})
	require.NoError(t, err)
	_, err = fw.Write([]byte("malicious content"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	f.Close()

	err = core.NewExtractor().Extract(context.Background(), zipPath, destDir)
	assert.ErrorIs(t, err, domain.ErrArchive)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(destDir), "escaped.txt"))
}

func TestExtractor_Extract_PreservesPermissions(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()

	zipPath := filepath.Join(srcDir, "test.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	header := &zip.FileHeader{
		Name:   "blender",
		Method: zip.Store,
	}
	header.SetMode(0755)
	fw, err := w.CreateHeader(header)
	require.NoError(t, err)
	_, err = fw.Write([]byte("#!/bin/sh\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	f.Close()

	err = core.NewExtractor().Extract(context.Background(), zipPath, destDir)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(destDir, "blender"))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestExtractor_Extract_CreatesDestDir(t *testing.T) {
	zipPath := createTestZip(t, t.TempDir(), "test.zip", map[string]string{"file.txt": "content"})
	destDir := filepath.Join(t.TempDir(), "nested", "dest")

	err := core.NewExtractor().Extract(context.Background(), zipPath, destDir)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(destDir, "file.txt"))
	require.NoError(t, err)
	assert.Equal(t, "content", string(content))
}

func TestExtractor_Extract_TarXz(t *testing.T) {
	if _, err := exec.LookPath("tar"); err != nil {
		t.Skip("tar not installed")
	}
	if _, err := exec.LookPath("xz"); err != nil {
		t.Skip("xz not installed")
	}

	srcDir := t.TempDir()
	build := filepath.Join(srcDir, "blender-4.1.0-linux-x64")
	require.NoError(t, os.MkdirAll(build, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(build, "blender"), []byte("launcher"), 0755))

	archive := filepath.Join(srcDir, "blender-4.1.0-linux-x64.tar.xz")
	out, err := exec.Command("tar", "-cJf", archive, "-C", srcDir, "blender-4.1.0-linux-x64").CombinedOutput()
	require.NoError(t, err, string(out))

	destDir := t.TempDir()
	err = core.NewExtractor().Extract(context.Background(), archive, destDir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(destDir, "blender-4.1.0-linux-x64", "blender"))
}
