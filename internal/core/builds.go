package core

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/JJeris/blendio/internal/domain"
	"github.com/JJeris/blendio/internal/storage/db"

	"github.com/Masterminds/semver/v3"
)

// RefreshResult counts what a refresh changed
type RefreshResult struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// RefreshInstalledBuilds scans the immediate subdirectories of every
// installation root for a Blender launcher, registers the new ones and
// forgets builds whose executable is gone. Running it again with nothing
// changed on disk is a no-op. The first error stops the scan; rows already
// written stay.
func (s *Service) RefreshInstalledBuilds(ctx context.Context) (RefreshResult, error) {
	s.buildsMu.Lock()
	defer s.buildsMu.Unlock()

	res, err := s.refreshInstalledBuilds(ctx)
	if err == nil {
		s.log.Info("refreshed installed builds", "added", res.Added, "removed", res.Removed)
	}
	return res, s.report(ctx, "refreshing installed builds", err)
}

func (s *Service) refreshInstalledBuilds(ctx context.Context) (RefreshResult, error) {
	var res RefreshResult

	roots, err := s.roots.Fetch(ctx, db.Filter{})
	if err != nil {
		return res, err
	}

	for _, root := range roots {
		entries, err := os.ReadDir(root.DirectoryPath)
		if err != nil {
			return res, domain.E(domain.KindFilesystem, "reading "+root.DirectoryPath, err)
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			dir := filepath.Join(root.DirectoryPath, entry.Name())
			exe := filepath.Join(dir, domain.LauncherFileName)
			if !isFile(exe) {
				continue
			}

			known, err := s.builds.ByKey(ctx, exe)
			if err != nil {
				return res, err
			}
			if known != nil {
				continue
			}

			version, variant := domain.ParseBuildDirName(entry.Name())
			build := &domain.InstalledBuild{
				Version:                   version,
				Variant:                   variant,
				InstallationDirectoryPath: dir,
				ExecutableFilePath:        exe,
			}
			if err := s.builds.Insert(ctx, build); err != nil {
				return res, err
			}
			s.log.Debug("discovered build", "dir", dir, "version", version, "variant", variant)
			res.Added++
		}
	}

	removed, err := s.pruneBuilds(ctx)
	res.Removed = removed
	return res, err
}

func (s *Service) pruneBuilds(ctx context.Context) (int, error) {
	builds, err := s.builds.Fetch(ctx, db.Filter{})
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, b := range builds {
		ok, err := pathExists(b.ExecutableFilePath)
		if err != nil {
			return removed, err
		}
		if ok {
			continue
		}
		if err := s.builds.Delete(ctx, b.ID); err != nil {
			return removed, err
		}
		s.log.Debug("pruned missing build", "exe", b.ExecutableFilePath)
		removed++
	}
	return removed, nil
}

// InstalledBuilds returns the builds selected by f, newest version first.
// Builds without a parseable version sort last.
func (s *Service) InstalledBuilds(ctx context.Context, f db.Filter) ([]domain.InstalledBuild, error) {
	builds, err := s.builds.Fetch(ctx, f)
	if err != nil {
		return nil, s.report(ctx, "listing installed builds", err)
	}
	SortBuilds(builds)
	return builds, nil
}

// SortBuilds orders builds newest version first.
func SortBuilds(builds []domain.InstalledBuild) {
	type ranked struct {
		build   domain.InstalledBuild
		version *semver.Version
	}
	list := make([]ranked, len(builds))
	for i, b := range builds {
		list[i].build = b
		if v, err := semver.NewVersion(b.Version); err == nil {
			list[i].version = v
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		vi, vj := list[i].version, list[j].version
		switch {
		case vi == nil:
			return false
		case vj == nil:
			return true
		default:
			return vi.GreaterThan(vj)
		}
	})
	for i := range list {
		builds[i] = list[i].build
	}
}

// SetBuildDefault marks or clears the default build
func (s *Service) SetBuildDefault(ctx context.Context, id string, isDefault bool) error {
	s.buildsMu.Lock()
	defer s.buildsMu.Unlock()

	err := setDefault(ctx, s.builds, id, isDefault)
	if err == nil {
		s.log.Info("build default changed", "id", id, "default", isDefault)
	}
	return s.report(ctx, "setting default build", err)
}

// DefaultBuild returns the default build, or nil when none is marked.
func (s *Service) DefaultBuild(ctx context.Context) (*domain.InstalledBuild, error) {
	b, err := defaultOf(ctx, s.builds)
	return b, s.report(ctx, "finding default build", err)
}

// AddInstalledBuild registers a Blender executable that lives outside any
// installation root. An empty path asks the user to pick one.
func (s *Service) AddInstalledBuild(ctx context.Context, exePath string) (*domain.InstalledBuild, error) {
	b, err := s.addInstalledBuild(ctx, exePath)
	return b, s.report(ctx, "adding build", err)
}

func (s *Service) addInstalledBuild(ctx context.Context, exePath string) (*domain.InstalledBuild, error) {
	if exePath == "" {
		picked, err := s.ui.PickFile(ctx, "Select a Blender executable", nil)
		if err != nil {
			return nil, err
		}
		if picked == "" {
			return nil, domain.ErrCancelled
		}
		exePath = picked
	}
	exePath = normalizePath(exePath)
	if !isFile(exePath) {
		return nil, domain.E(domain.KindFilesystem, "adding build",
			fmt.Errorf("%s is not a file: %w", exePath, os.ErrNotExist))
	}

	s.buildsMu.Lock()
	defer s.buildsMu.Unlock()

	existing, err := s.builds.ByKey(ctx, exePath)
	if err != nil || existing != nil {
		return existing, err
	}

	dir := filepath.Dir(exePath)
	version, variant := domain.ParseBuildDirName(filepath.Base(dir))
	build := &domain.InstalledBuild{
		Version:                   version,
		Variant:                   variant,
		InstallationDirectoryPath: dir,
		ExecutableFilePath:        exePath,
	}
	if err := s.builds.Insert(ctx, build); err != nil {
		return nil, err
	}
	s.log.Info("added build", "id", build.ID, "exe", exePath)
	return build, nil
}

// UninstallBuild deletes the build's installation directory from disk and
// then its row, after confirmation.
func (s *Service) UninstallBuild(ctx context.Context, id string) error {
	return s.report(ctx, "uninstalling build", s.uninstallBuild(ctx, id))
}

func (s *Service) uninstallBuild(ctx context.Context, id string) error {
	build, err := s.builds.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.confirm(ctx, "Uninstall "+build.DisplayName(),
		fmt.Sprintf("Delete %s from disk?", build.InstallationDirectoryPath)); err != nil {
		return err
	}

	s.buildsMu.Lock()
	defer s.buildsMu.Unlock()

	if err := removeDir(build.InstallationDirectoryPath); err != nil {
		return err
	}
	if err := s.builds.Delete(ctx, build.ID); err != nil {
		return err
	}
	s.log.Info("uninstalled build", "id", build.ID, "dir", build.InstallationDirectoryPath)
	return nil
}

// InstallFromArchive unpacks a downloaded build archive next to itself,
// deletes the archive and records the build. Installing over an existing
// executable path updates that row in place. Partially extracted files are
// left behind on failure.
func (s *Service) InstallFromArchive(ctx context.Context, archivePath string, meta domain.DownloadableBuild) (*domain.InstalledBuild, error) {
	b, err := s.installFromArchive(ctx, archivePath, meta)
	return b, s.report(ctx, "installing build", err)
}

func (s *Service) installFromArchive(ctx context.Context, archivePath string, meta domain.DownloadableBuild) (*domain.InstalledBuild, error) {
	dir, err := s.extractor.ExtractBeside(ctx, archivePath)
	if err != nil {
		return nil, err
	}
	if err := removeFile(archivePath); err != nil {
		return nil, err
	}

	build := &domain.InstalledBuild{
		Version:                   meta.Version,
		Variant:                   meta.ReleaseCycle,
		DownloadURL:               meta.URL,
		InstallationDirectoryPath: dir,
		ExecutableFilePath:        filepath.Join(dir, domain.LauncherFileName),
	}

	s.buildsMu.Lock()
	defer s.buildsMu.Unlock()

	existing, err := s.builds.ByKey(ctx, build.ExecutableFilePath)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if err := s.builds.Insert(ctx, build); err != nil {
			return nil, err
		}
		s.log.Info("installed build", "id", build.ID, "version", build.Version, "dir", dir)
		return build, nil
	}

	build.Record = existing.Record
	build.IsDefault = existing.IsDefault
	if err := s.builds.Update(ctx, build); err != nil {
		return nil, err
	}
	s.log.Info("reinstalled build", "id", build.ID, "version", build.Version, "dir", dir)
	return build, nil
}

// DownloadAndInstall downloads a feed build into the given installation
// root, or the download root when rootID is empty, and installs it.
func (s *Service) DownloadAndInstall(ctx context.Context, build domain.DownloadableBuild, rootID string, progress ProgressFunc) (*domain.InstalledBuild, error) {
	b, err := s.downloadAndInstall(ctx, build, rootID, progress)
	return b, s.report(ctx, "downloading build", err)
}

func (s *Service) downloadAndInstall(ctx context.Context, build domain.DownloadableBuild, rootID string, progress ProgressFunc) (*domain.InstalledBuild, error) {
	var root *domain.InstallationRoot
	var err error
	if rootID == "" {
		root, err = s.downloadRoot(ctx)
	} else {
		root, err = s.roots.Get(ctx, rootID)
	}
	if err != nil {
		return nil, err
	}

	name := build.FileName
	if name == "" {
		name = path.Base(build.URL)
	}
	dest := filepath.Join(root.DirectoryPath, filepath.Base(name))

	s.log.Info("downloading build", "url", build.URL, "dest", dest)
	result, err := s.downloader.Download(ctx, build.URL, dest, "", progress)
	if err != nil {
		return nil, err
	}
	s.log.Debug("download complete", "bytes", result.Size, "sha256", result.Checksum)

	return s.installFromArchive(ctx, result.Path, build)
}
