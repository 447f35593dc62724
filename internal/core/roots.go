package core

import (
	"context"
	"fmt"

	"github.com/JJeris/blendio/internal/domain"
	"github.com/JJeris/blendio/internal/storage/db"
)

// AddInstallationRoot registers a directory to scan for builds. An empty
// path asks the user to pick one. Registering a known path returns the
// existing row.
func (s *Service) AddInstallationRoot(ctx context.Context, path string) (*domain.InstallationRoot, error) {
	root, err := s.addInstallationRoot(ctx, path)
	return root, s.report(ctx, "adding installation root", err)
}

func (s *Service) addInstallationRoot(ctx context.Context, path string) (*domain.InstallationRoot, error) {
	if path == "" {
		picked, err := s.ui.PickFolder(ctx, "Select a Blender installation folder")
		if err != nil {
			return nil, err
		}
		if picked == "" {
			return nil, domain.ErrCancelled
		}
		path = picked
	}
	path = normalizePath(path)

	s.rootsMu.Lock()
	defer s.rootsMu.Unlock()

	existing, err := s.roots.ByKey(ctx, path)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.log.Debug("installation root already registered", "path", path)
		return existing, nil
	}

	root := &domain.InstallationRoot{DirectoryPath: path}
	if err := s.roots.Insert(ctx, root); err != nil {
		return nil, err
	}
	s.log.Info("added installation root", "id", root.ID, "path", path)
	return root, nil
}

// InstallationRoots returns the roots selected by f
func (s *Service) InstallationRoots(ctx context.Context, f db.Filter) ([]domain.InstallationRoot, error) {
	roots, err := s.roots.Fetch(ctx, f)
	return roots, s.report(ctx, "listing installation roots", err)
}

// SetInstallationRootDefault marks or clears the default root
func (s *Service) SetInstallationRootDefault(ctx context.Context, id string, isDefault bool) error {
	s.rootsMu.Lock()
	defer s.rootsMu.Unlock()

	err := setDefault(ctx, s.roots, id, isDefault)
	if err == nil {
		s.log.Info("installation root default changed", "id", id, "default", isDefault)
	}
	return s.report(ctx, "setting default installation root", err)
}

// DownloadRoot returns the root new downloads go to: the default one, else
// the first registered. NotFound when there are none.
func (s *Service) DownloadRoot(ctx context.Context) (*domain.InstallationRoot, error) {
	root, err := s.downloadRoot(ctx)
	return root, s.report(ctx, "choosing download location", err)
}

func (s *Service) downloadRoot(ctx context.Context) (*domain.InstallationRoot, error) {
	root, err := defaultOf(ctx, s.roots)
	if err != nil || root != nil {
		return root, err
	}
	roots, err := s.roots.Fetch(ctx, db.Filter{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return nil, domain.E(domain.KindNotFound, "choosing download location",
			fmt.Errorf("no installation root registered: %w", domain.ErrNotFound))
	}
	return &roots[0], nil
}

// RemoveInstallationRoot forgets a root and every build installed under it.
// Nothing is deleted from disk.
func (s *Service) RemoveInstallationRoot(ctx context.Context, id string) error {
	return s.report(ctx, "removing installation root", s.removeInstallationRoot(ctx, id))
}

func (s *Service) removeInstallationRoot(ctx context.Context, id string) error {
	root, err := s.roots.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.confirm(ctx, "Remove installation location",
		fmt.Sprintf("Stop tracking %s and every build found under it?", root.DirectoryPath)); err != nil {
		return err
	}

	s.rootsMu.Lock()
	defer s.rootsMu.Unlock()
	s.buildsMu.Lock()
	defer s.buildsMu.Unlock()

	builds, err := s.builds.Fetch(ctx, db.Filter{})
	if err != nil {
		return err
	}
	removed := 0
	for _, b := range builds {
		if !within(root.DirectoryPath, b.InstallationDirectoryPath) {
			continue
		}
		if err := s.builds.Delete(ctx, b.ID); err != nil {
			return err
		}
		removed++
	}

	if err := s.roots.Delete(ctx, root.ID); err != nil {
		return err
	}
	s.log.Info("removed installation root", "path", root.DirectoryPath, "builds", removed)
	return nil
}
