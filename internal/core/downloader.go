package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/JJeris/blendio/internal/domain"
)

// DownloadProgress represents the current state of a download
type DownloadProgress struct {
	TotalBytes int64   // Total size in bytes (0 if unknown)
	Downloaded int64   // Bytes downloaded so far
	Percentage float64 // Completion percentage (0-100)
}

// ProgressFunc is called periodically during download with progress updates
type ProgressFunc func(DownloadProgress)

// DownloadResult contains the outcome of a download
type DownloadResult struct {
	Path     string // Final file path
	Size     int64  // Bytes downloaded
	Checksum string // SHA-256 of the downloaded file, hex encoded
}

// Downloader fetches build archives over HTTP
type Downloader struct {
	httpClient *http.Client
}

// NewDownloader creates a new Downloader with the given HTTP client
// If httpClient is nil, http.DefaultClient is used
func NewDownloader(httpClient *http.Client) *Downloader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Downloader{
		httpClient: httpClient,
	}
}

// Download fetches url into destPath. The file only appears under destPath
// once complete. A non-empty wantChecksum is compared to the SHA-256 of the
// body.
func (d *Downloader) Download(ctx context.Context, url, destPath, wantChecksum string, progressFn ProgressFunc) (*DownloadResult, error) {
	result, err := d.download(ctx, url, destPath, wantChecksum, progressFn)
	if err != nil {
		return nil, domain.E(domain.KindNetwork, "downloading "+filepath.Base(destPath), err)
	}
	return result, nil
}

func (d *Downloader) download(ctx context.Context, url, destPath, wantChecksum string, progressFn ProgressFunc) (*DownloadResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "blendio")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return nil, domain.E(domain.KindFilesystem, "creating download directory", err)
	}

	tempPath := destPath + ".part"
	file, err := os.Create(tempPath)
	if err != nil {
		return nil, domain.E(domain.KindFilesystem, "creating download file", err)
	}
	defer func() {
		file.Close()
		os.Remove(tempPath) // no-op after the rename
	}()

	hasher := sha256.New()
	reader := &progressReader{
		reader:     resp.Body,
		totalBytes: resp.ContentLength,
		progressFn: progressFn,
	}

	written, err := io.Copy(file, io.TeeReader(reader, hasher))
	if err != nil {
		return nil, fmt.Errorf("downloading file: %w", err)
	}

	if err := file.Close(); err != nil {
		return nil, domain.E(domain.KindFilesystem, "closing download file", err)
	}

	checksum := hex.EncodeToString(hasher.Sum(nil))
	if wantChecksum != "" && !strings.EqualFold(wantChecksum, checksum) {
		return nil, fmt.Errorf("checksum mismatch: got %s, want %s", checksum, wantChecksum)
	}

	if err := os.Rename(tempPath, destPath); err != nil {
		return nil, domain.E(domain.KindFilesystem, "moving download into place", err)
	}

	return &DownloadResult{
		Path:     destPath,
		Size:     written,
		Checksum: checksum,
	}, nil
}

// progressReader wraps an io.Reader to track download progress
type progressReader struct {
	reader     io.Reader
	totalBytes int64
	downloaded int64
	progressFn ProgressFunc
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.downloaded += int64(n)
		if r.progressFn != nil {
			progress := DownloadProgress{
				TotalBytes: r.totalBytes,
				Downloaded: r.downloaded,
			}
			if r.totalBytes > 0 {
				progress.Percentage = float64(r.downloaded) / float64(r.totalBytes) * 100
			}
			r.progressFn(progress)
		}
	}
	return n, err
}
