package core_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/JJeris/blendio/internal/core"
	"github.com/JJeris/blendio/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func TestDownloader_Download_ReturnsChecksum(t *testing.T) {
	content := []byte("test file content for checksum")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer server.Close()

	downloader := core.NewDownloader(nil)
	destPath := filepath.Join(t.TempDir(), "test.zip")

	result, err := downloader.Download(context.Background(), server.URL, destPath, "", nil)
	require.NoError(t, err)

	assert.Equal(t, destPath, result.Path)
	assert.Equal(t, int64(len(content)), result.Size)
	assert.Equal(t, sha256Hex(content), result.Checksum)
	assert.Len(t, result.Checksum, 64)
}

func TestDownloader_Download_VerifiesChecksum(t *testing.T) {
	content := []byte("blender archive")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer server.Close()

	downloader := core.NewDownloader(nil)
	dir := t.TempDir()

	_, err := downloader.Download(context.Background(), server.URL, filepath.Join(dir, "ok.zip"), sha256Hex(content), nil)
	require.NoError(t, err)

	bad := filepath.Join(dir, "bad.zip")
	_, err = downloader.Download(context.Background(), server.URL, bad, sha256Hex([]byte("other")), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
	assert.NoFileExists(t, bad)
	assert.NoFileExists(t, bad+".part")
}

func TestDownloader_Download(t *testing.T) {
	content := []byte("test file content")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "blendio", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Length", "17")
		w.Write(content)
	}))
	defer server.Close()

	downloader := core.NewDownloader(nil)
	destPath := filepath.Join(t.TempDir(), "test.zip")

	var progressCalls []core.DownloadProgress
	progressFn := func(p core.DownloadProgress) {
		progressCalls = append(progressCalls, p)
	}

	_, err := downloader.Download(context.Background(), server.URL, destPath, "", progressFn)
	require.NoError(t, err)

	data, err := os.ReadFile(destPath)
	require.NoError(t, err)
	assert.Equal(t, content, data)

	require.NotEmpty(t, progressCalls)
	last := progressCalls[len(progressCalls)-1]
	assert.Equal(t, int64(17), last.Downloaded)
	assert.InDelta(t, 100.0, last.Percentage, 0.1)
}

func TestDownloader_Download_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000000")
		for i := 0; i < 1000; i++ {
			select {
			case <-r.Context().Done():
				return
			default:
				w.Write(make([]byte, 1000))
				w.(http.Flusher).Flush()
			}
		}
	}))
	defer server.Close()

	downloader := core.NewDownloader(nil)
	destPath := filepath.Join(t.TempDir(), "test.zip")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := downloader.Download(ctx, server.URL, destPath, "", nil)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.NoFileExists(t, destPath)
}

func TestDownloader_Download_HTTPErrors(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusInternalServerError, "500"},
		{http.StatusNotFound, "404"},
		{http.StatusServiceUnavailable, "503"},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.status), func(t *testing.T) {
			attempts := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				attempts++
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			destPath := filepath.Join(t.TempDir(), "test.zip")
			_, err := core.NewDownloader(nil).Download(context.Background(), server.URL, destPath, "", nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrNetwork)
			assert.Contains(t, err.Error(), tt.want)
			// no retries
			assert.Equal(t, 1, attempts)
		})
	}
}

func TestDownloader_Download_CreatesDirectories(t *testing.T) {
	content := []byte("test content")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer server.Close()

	destPath := filepath.Join(t.TempDir(), "nested", "dir", "test.zip")
	_, err := core.NewDownloader(nil).Download(context.Background(), server.URL, destPath, "", nil)
	require.NoError(t, err)

	data, err := os.ReadFile(destPath)
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestDownloader_Download_UnknownContentLength(t *testing.T) {
	content := []byte("test content")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.(http.Flusher).Flush() // forces chunked encoding
		w.Write(content)
	}))
	defer server.Close()

	var last core.DownloadProgress
	destPath := filepath.Join(t.TempDir(), "test.zip")
	_, err := core.NewDownloader(nil).Download(context.Background(), server.URL, destPath, "", func(p core.DownloadProgress) {
		last = p
	})
	require.NoError(t, err)

	assert.Equal(t, int64(len(content)), last.Downloaded)
	assert.Zero(t, last.Percentage)
}

type testRoundTripper struct {
	header string
	rt     http.RoundTripper
}

func (t *testRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("X-Test", t.header)
	return t.rt.RoundTrip(req)
}

func TestDownloader_Download_CustomHTTPClient(t *testing.T) {
	content := []byte("custom client test")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "yes", r.Header.Get("X-Test"))
		w.Write(content)
	}))
	defer server.Close()

	client := &http.Client{Transport: &testRoundTripper{header: "yes", rt: http.DefaultTransport}}
	destPath := filepath.Join(t.TempDir(), "test.zip")

	_, err := core.NewDownloader(client).Download(context.Background(), server.URL, destPath, "", nil)
	require.NoError(t, err)
}

func TestDownloader_Download_ReplacesExisting(t *testing.T) {
	content := []byte("test content for atomic write")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer server.Close()

	destPath := filepath.Join(t.TempDir(), "final.zip")
	require.NoError(t, os.WriteFile(destPath, []byte("old content"), 0644))

	_, err := core.NewDownloader(nil).Download(context.Background(), server.URL, destPath, "", nil)
	require.NoError(t, err)

	data, err := os.ReadFile(destPath)
	require.NoError(t, err)
	assert.Equal(t, content, data)
	assert.NoFileExists(t, destPath+".part")
}
