package core

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/JJeris/blendio/internal/domain"
)

// Archiver packs single files into zip archives
type Archiver struct{}

// NewArchiver creates a new Archiver
func NewArchiver() *Archiver {
	return &Archiver{}
}

// ArchiveFile writes <dir>/<stem>.zip next to path holding the one file,
// stored without compression. Returns the archive path.
func (a *Archiver) ArchiveFile(path string) (string, error) {
	archivePath := strings.TrimSuffix(path, filepath.Ext(path)) + ".zip"
	if err := a.writeArchive(path, archivePath); err != nil {
		os.Remove(archivePath)
		return "", domain.E(domain.KindArchive, "archiving "+filepath.Base(path), err)
	}
	return archivePath, nil
}

func (a *Archiver) writeArchive(path, archivePath string) (err error) {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("reading source info: %w", err)
	}

	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing archive: %w", cerr)
		}
	}()

	zw := zip.NewWriter(out)

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("building entry header: %w", err)
	}
	header.Name = filepath.Base(path)
	header.Method = zip.Store

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("creating entry: %w", err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	return nil
}
