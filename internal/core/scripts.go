package core

import (
	"context"
	"fmt"
	"os"

	"github.com/JJeris/blendio/internal/domain"
	"github.com/JJeris/blendio/internal/storage/db"
)

// AddPythonScript saves a script path and returns its id. An empty path
// asks the user to pick a .py file. A saved path only has its access time
// refreshed.
func (s *Service) AddPythonScript(ctx context.Context, path string) (string, error) {
	id, err := s.addPythonScript(ctx, path)
	return id, s.report(ctx, "saving python script", err)
}

func (s *Service) addPythonScript(ctx context.Context, path string) (string, error) {
	if path == "" {
		picked, err := s.ui.PickFile(ctx, "Select a Python script", []string{".py"})
		if err != nil {
			return "", err
		}
		if picked == "" {
			return "", domain.ErrCancelled
		}
		path = picked
	}
	path = normalizePath(path)
	if !isFile(path) {
		return "", domain.E(domain.KindFilesystem, "saving python script",
			fmt.Errorf("%s: %w", path, os.ErrNotExist))
	}

	s.scriptsMu.Lock()
	defer s.scriptsMu.Unlock()

	existing, err := s.scripts.ByKey(ctx, path)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, s.scripts.Update(ctx, existing)
	}

	script := &domain.PythonScript{ScriptFilePath: path}
	if err := s.scripts.Insert(ctx, script); err != nil {
		return "", err
	}
	s.log.Info("saved python script", "id", script.ID, "path", path)
	return script.ID, nil
}

// PythonScripts returns the scripts selected by f
func (s *Service) PythonScripts(ctx context.Context, f db.Filter) ([]domain.PythonScript, error) {
	scripts, err := s.scripts.Fetch(ctx, f)
	return scripts, s.report(ctx, "listing python scripts", err)
}

// RemovePythonScript forgets a script after confirmation. The file stays.
func (s *Service) RemovePythonScript(ctx context.Context, id string) error {
	script, err := s.scripts.Get(ctx, id)
	if err == nil {
		err = s.confirm(ctx, "Forget python script",
			fmt.Sprintf("Stop tracking %s?", script.ScriptFilePath))
	}
	if err == nil {
		s.scriptsMu.Lock()
		err = s.scripts.Delete(ctx, id)
		s.scriptsMu.Unlock()
	}
	return s.report(ctx, "removing python script", err)
}

// RevealPythonScript opens the folder containing the script
func (s *Service) RevealPythonScript(ctx context.Context, id string) error {
	script, err := s.scripts.Get(ctx, id)
	if err == nil {
		err = s.runner.Reveal(ctx, script.ScriptFilePath)
	}
	return s.report(ctx, "revealing python script", err)
}
