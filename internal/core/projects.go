package core

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/JJeris/blendio/internal/domain"
	"github.com/JJeris/blendio/internal/storage/db"
)

// recentFilesRoot is the directory holding one subdirectory per Blender
// series, each with its own recent-files manifest.
func (s *Service) recentFilesRoot() (string, error) {
	if s.config.RecentFilesRoot != "" {
		return s.config.RecentFilesRoot, nil
	}
	root, err := domain.BlenderConfigRoot()
	if err != nil {
		return "", domain.E(domain.KindFilesystem, "locating Blender config", err)
	}
	return root, nil
}

// manifest is one series' recent-files list
type manifest struct {
	series string
	path   string
}

func (s *Service) manifests() ([]manifest, error) {
	root, err := s.recentFilesRoot()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Debug("no Blender config directory", "path", root)
		return nil, nil
	}
	if err != nil {
		return nil, domain.E(domain.KindFilesystem, "reading "+root, err)
	}

	var out []manifest
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(root, e.Name(), domain.RecentFilesManifest)
		if isFile(path) {
			out = append(out, manifest{series: e.Name(), path: path})
		}
	}
	return out, nil
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.E(domain.KindFilesystem, "reading "+path, err)
	}
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, domain.E(domain.KindFilesystem, "reading "+path, err)
	}
	return lines, nil
}

func writeLines(path string, lines []string) error {
	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return domain.E(domain.KindFilesystem, "writing "+path, err)
	}
	return nil
}

// RefreshProjectFiles syncs project files with Blender's recent-files
// manifests. Files that no longer exist are dropped from the store and from
// the manifest, which is rewritten with only the lines that still resolve.
// Files seen under a new series get that series added.
func (s *Service) RefreshProjectFiles(ctx context.Context) (RefreshResult, error) {
	s.projectsMu.Lock()
	defer s.projectsMu.Unlock()

	res, err := s.refreshProjectFiles(ctx)
	if err == nil {
		s.log.Info("refreshed project files", "added", res.Added, "removed", res.Removed)
	}
	return res, s.report(ctx, "refreshing project files", err)
}

func (s *Service) refreshProjectFiles(ctx context.Context) (RefreshResult, error) {
	var res RefreshResult

	manifests, err := s.manifests()
	if err != nil {
		return res, err
	}

	for _, m := range manifests {
		lines, err := readLines(m.path)
		if err != nil {
			return res, err
		}

		kept := make([]string, 0, len(lines))
		for _, line := range lines {
			ok, err := pathExists(line)
			if err != nil {
				return res, err
			}

			project, err := s.projects.ByKey(ctx, line)
			if err != nil {
				return res, err
			}

			if !ok {
				if project != nil {
					if err := s.projects.Delete(ctx, project.ID); err != nil {
						return res, err
					}
					res.Removed++
				}
				continue
			}
			kept = append(kept, line)

			if project == nil {
				project = &domain.ProjectFile{FilePath: line, FileName: filepath.Base(line)}
				project.SetSeries([]string{m.series})
				if err := s.projects.Insert(ctx, project); err != nil {
					return res, err
				}
				res.Added++
				continue
			}
			if project.AddSeries(m.series) {
				if err := s.projects.Update(ctx, project); err != nil {
					return res, err
				}
			}
		}

		if err := writeLines(m.path, kept); err != nil {
			return res, err
		}
	}

	removed, err := s.pruneProjects(ctx)
	res.Removed += removed
	return res, err
}

func (s *Service) pruneProjects(ctx context.Context) (int, error) {
	projects, err := s.projects.Fetch(ctx, db.Filter{})
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, p := range projects {
		ok, err := pathExists(p.FilePath)
		if err != nil {
			return removed, err
		}
		if ok {
			continue
		}
		if err := s.projects.Delete(ctx, p.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// AddProjectFile tracks a .blend file. An empty path asks the user to pick
// one. Adding a tracked file refreshes its access time.
func (s *Service) AddProjectFile(ctx context.Context, path string) (*domain.ProjectFile, error) {
	p, err := s.addProjectFile(ctx, path)
	return p, s.report(ctx, "adding project file", err)
}

func (s *Service) addProjectFile(ctx context.Context, path string) (*domain.ProjectFile, error) {
	if path == "" {
		picked, err := s.ui.PickFile(ctx, "Select a Blender project", []string{".blend"})
		if err != nil {
			return nil, err
		}
		if picked == "" {
			return nil, domain.ErrCancelled
		}
		path = picked
	}
	path = normalizePath(path)
	if !isFile(path) {
		return nil, domain.E(domain.KindFilesystem, "adding project file",
			fmt.Errorf("%s: %w", path, os.ErrNotExist))
	}
	return s.trackProjectFile(ctx, path)
}

// trackProjectFile inserts path, or touches the row already tracking it.
func (s *Service) trackProjectFile(ctx context.Context, path string) (*domain.ProjectFile, error) {
	s.projectsMu.Lock()
	defer s.projectsMu.Unlock()

	existing, err := s.projects.ByKey(ctx, path)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, s.projects.Update(ctx, existing)
	}

	project := &domain.ProjectFile{FilePath: path, FileName: filepath.Base(path)}
	project.SetSeries(nil)
	if err := s.projects.Insert(ctx, project); err != nil {
		return nil, err
	}
	s.log.Info("added project file", "id", project.ID, "path", path)
	return project, nil
}

// ProjectFiles returns the projects selected by f, most recently used first.
func (s *Service) ProjectFiles(ctx context.Context, f db.Filter) ([]domain.ProjectFile, error) {
	projects, err := s.projects.Fetch(ctx, f)
	if err != nil {
		return nil, s.report(ctx, "listing project files", err)
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Accessed.After(projects[j].Accessed)
	})
	return projects, nil
}

// RemoveProjectFile deletes the file from disk, strips it from every
// recent-files manifest and forgets it, after confirmation.
func (s *Service) RemoveProjectFile(ctx context.Context, id string) error {
	return s.report(ctx, "removing project file", s.removeProjectFile(ctx, id))
}

func (s *Service) removeProjectFile(ctx context.Context, id string) error {
	project, err := s.projects.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.confirm(ctx, "Delete "+project.FileName,
		fmt.Sprintf("Delete %s from disk?", project.FilePath)); err != nil {
		return err
	}

	s.projectsMu.Lock()
	defer s.projectsMu.Unlock()

	if err := removeFile(project.FilePath); err != nil {
		return err
	}

	manifests, err := s.manifests()
	if err != nil {
		return err
	}
	for _, m := range manifests {
		lines, err := readLines(m.path)
		if err != nil {
			return err
		}
		kept := lines[:0]
		for _, l := range lines {
			if l != project.FilePath {
				kept = append(kept, l)
			}
		}
		if len(kept) == len(lines) {
			continue
		}
		if err := writeLines(m.path, kept); err != nil {
			return err
		}
	}

	if err := s.projects.Delete(ctx, project.ID); err != nil {
		return err
	}
	s.log.Info("removed project file", "path", project.FilePath)
	return nil
}

// RevealProjectFile opens the folder containing the project
func (s *Service) RevealProjectFile(ctx context.Context, id string) error {
	project, err := s.projects.Get(ctx, id)
	if err != nil {
		return s.report(ctx, "revealing project file", err)
	}
	return s.report(ctx, "revealing project file", s.runner.Reveal(ctx, project.FilePath))
}

// ArchiveProjectFile zips the project next to itself and returns the
// archive path.
func (s *Service) ArchiveProjectFile(ctx context.Context, id string) (string, error) {
	project, err := s.projects.Get(ctx, id)
	if err != nil {
		return "", s.report(ctx, "archiving project file", err)
	}
	path, err := s.archiver.ArchiveFile(project.FilePath)
	if err != nil {
		return "", s.report(ctx, "archiving project file", err)
	}
	s.log.Info("archived project file", "path", project.FilePath, "archive", path)
	s.ui.Notify(ctx, NoticeInfo, "Archived to "+path)
	return path, nil
}
