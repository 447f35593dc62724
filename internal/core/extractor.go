package core

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/JJeris/blendio/internal/domain"
)

// Archive formats the extractor understands
const (
	FormatZip   = "zip"
	FormatTarXz = "tar.xz"
)

// extractTarTimeout bounds the system tar run (corrupted archives or hangs).
const extractTarTimeout = 10 * time.Minute

// Extractor unpacks downloaded build archives
type Extractor struct {
	tarTimeout time.Duration
}

// NewExtractor creates a new Extractor
func NewExtractor() *Extractor {
	return &Extractor{tarTimeout: extractTarTimeout}
}

// DetectFormat returns the archive format based on the file name, or "".
func (e *Extractor) DetectFormat(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return FormatZip
	case strings.HasSuffix(lower, ".tar.xz"):
		return FormatTarXz
	default:
		return ""
	}
}

// CanExtract returns true if the extractor can handle the given filename
func (e *Extractor) CanExtract(filename string) bool {
	return e.DetectFormat(filename) != ""
}

// Stem strips a known archive extension from a file name.
func Stem(filename string) string {
	base := filepath.Base(filename)
	lower := strings.ToLower(base)
	for _, ext := range []string{".tar.xz", ".zip", ".dmg"} {
		if strings.HasSuffix(lower, ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ExtractBeside unpacks the archive into its own parent directory and returns
// <parent>/<stem>, where the build archives keep their single top-level
// directory.
func (e *Extractor) ExtractBeside(ctx context.Context, archivePath string) (string, error) {
	parent := filepath.Dir(archivePath)
	if err := e.Extract(ctx, archivePath, parent); err != nil {
		return "", err
	}
	return filepath.Join(parent, Stem(archivePath)), nil
}

// Extract unpacks an archive into destDir. Supports .zip natively and
// .tar.xz through the system tar command.
func (e *Extractor) Extract(ctx context.Context, archivePath, destDir string) error {
	format := e.DetectFormat(archivePath)
	if format == "" {
		return domain.E(domain.KindArchive, "extracting "+filepath.Base(archivePath),
			fmt.Errorf("unsupported archive format: %s", filepath.Ext(archivePath)))
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return domain.E(domain.KindFilesystem, "creating destination directory", err)
	}

	var err error
	switch format {
	case FormatZip:
		err = e.extractZip(archivePath, destDir)
	case FormatTarXz:
		err = e.extractTar(ctx, archivePath, destDir)
	}
	return domain.E(domain.KindArchive, "extracting "+filepath.Base(archivePath), err)
}

func (e *Extractor) extractZip(archivePath, destDir string) (err error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening zip: %w", err)
	}
	defer func() {
		if cerr := r.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing zip: %w", cerr)
		}
	}()

	for _, f := range r.File {
		if err := e.extractZipFile(f, destDir); err != nil {
			return err
		}
	}

	return nil
}

func (e *Extractor) extractZipFile(f *zip.File, destDir string) (err error) {
	destPath, err := e.sanitizePath(destDir, f.Name)
	if err != nil {
		return err
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(destPath, 0755)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening file %s in archive: %w", f.Name, err)
	}
	defer func() {
		if cerr := rc.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing archive entry %s: %w", f.Name, cerr)
		}
	}()

	// Keep the executable bit; blender-launcher needs it on unix hosts.
	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	outFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", destPath, err)
	}
	defer func() {
		if cerr := outFile.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing file %s: %w", destPath, cerr)
		}
	}()

	if _, err = io.Copy(outFile, rc); err != nil {
		return fmt.Errorf("writing file %s: %w", destPath, err)
	}

	return nil
}

// sanitizePath ensures the extracted file path is within the destination
// directory, rejecting entries like "../../etc/passwd".
func (e *Extractor) sanitizePath(destDir, filePath string) (string, error) {
	destPath := filepath.Join(destDir, filepath.Clean(filePath))

	cleanDest := filepath.Clean(destDir)
	if filepath.Clean(destPath) != cleanDest &&
		!strings.HasPrefix(filepath.Clean(destPath)+string(os.PathSeparator), cleanDest+string(os.PathSeparator)) {
		return "", fmt.Errorf("path traversal detected: %s", filePath)
	}

	return destPath, nil
}

func (e *Extractor) extractTar(ctx context.Context, archivePath, destDir string) error {
	if _, err := exec.LookPath("tar"); err != nil {
		return errors.New("tar command not found: install tar and xz to extract .tar.xz builds")
	}

	ctx, cancel := context.WithTimeout(ctx, e.tarTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "tar", "-xJf", archivePath, "-C", destDir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("tar extraction timed out after %v", e.tarTimeout)
		}
		return fmt.Errorf("tar extraction failed: %w\nOutput: %s", err, string(output))
	}

	return nil
}
