package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JJeris/blendio/internal/domain"
)

// LaunchRequest selects what to start. An empty BuildID means the default
// build; the other fields are optional.
type LaunchRequest struct {
	BuildID          string
	LaunchArgumentID string
	ScriptID         string
	Leading          string // positional argument placed first, e.g. a .blend path
}

// AssembleArguments builds Blender's argument list: the leading positional,
// then argString split on whitespace, then the script. When the tokens
// already contain --python only the script path is appended, giving Blender
// a second path after the first.
func AssembleArguments(leading, argString, scriptPath string) []string {
	args := []string{}
	if leading != "" {
		args = append(args, leading)
	}
	args = append(args, strings.Fields(argString)...)

	if scriptPath == "" {
		return args
	}
	for _, a := range args {
		if a == "--python" {
			return append(args, scriptPath)
		}
	}
	return append(args, "--python", scriptPath)
}

// LaunchBuild starts a build and waits for it to exit. Every entity named in
// req is looked up first and has its access time refreshed.
func (s *Service) LaunchBuild(ctx context.Context, req LaunchRequest) error {
	return s.report(ctx, "launching build", s.launch(ctx, req, nil))
}

// launch runs the resolve, touch and run sequence. onArgument may adjust the
// launch argument before it is written back.
func (s *Service) launch(ctx context.Context, req LaunchRequest, onArgument func(*domain.LaunchArgument)) error {
	build, err := s.resolveBuild(ctx, req.BuildID)
	if err != nil {
		return err
	}
	if err := s.touchBuild(ctx, build); err != nil {
		return err
	}

	var argString, scriptPath string

	if req.LaunchArgumentID != "" {
		arg, err := s.args.Get(ctx, req.LaunchArgumentID)
		if err != nil {
			return err
		}
		if onArgument != nil {
			onArgument(arg)
		}
		s.argsMu.Lock()
		err = s.args.Update(ctx, arg)
		s.argsMu.Unlock()
		if err != nil {
			return err
		}
		argString = arg.ArgumentString
	}

	if req.ScriptID != "" {
		script, err := s.scripts.Get(ctx, req.ScriptID)
		if err != nil {
			return err
		}
		s.scriptsMu.Lock()
		err = s.scripts.Update(ctx, script)
		s.scriptsMu.Unlock()
		if err != nil {
			return err
		}
		scriptPath = script.ScriptFilePath
	}

	args := AssembleArguments(req.Leading, argString, scriptPath)
	s.log.Info("launching build", "build", build.DisplayName(), "cmd", commandLine(build.ExecutableFilePath, args))
	return s.runner.Run(ctx, build.ExecutableFilePath, args...)
}

// resolveBuild looks up id, or the default build when id is empty.
func (s *Service) resolveBuild(ctx context.Context, id string) (*domain.InstalledBuild, error) {
	if id != "" {
		return s.builds.Get(ctx, id)
	}
	build, err := defaultOf(ctx, s.builds)
	if err != nil {
		return nil, err
	}
	if build == nil {
		return nil, domain.E(domain.KindNotFound, "resolving build",
			fmt.Errorf("no build id given and no default build set: %w", domain.ErrNotFound))
	}
	return build, nil
}

func (s *Service) touchBuild(ctx context.Context, build *domain.InstalledBuild) error {
	s.buildsMu.Lock()
	defer s.buildsMu.Unlock()
	return s.builds.Update(ctx, build)
}

// OpenProjectFile opens a project in a build. With no build in req the
// project's last used build is tried, then the default build. The build is
// remembered on the project and the launch argument, if any, records the
// project and script it was last used with.
func (s *Service) OpenProjectFile(ctx context.Context, projectID string, req LaunchRequest) error {
	return s.report(ctx, "opening project file", s.openProjectFile(ctx, projectID, req))
}

func (s *Service) openProjectFile(ctx context.Context, projectID string, req LaunchRequest) error {
	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return err
	}

	if req.BuildID == "" && project.LastUsedBuildID != "" {
		if _, err := s.builds.Get(ctx, project.LastUsedBuildID); err == nil {
			req.BuildID = project.LastUsedBuildID
		}
	}
	build, err := s.resolveBuild(ctx, req.BuildID)
	if err != nil {
		return err
	}
	req.BuildID = build.ID

	project.LastUsedBuildID = build.ID
	s.projectsMu.Lock()
	err = s.projects.Update(ctx, project)
	s.projectsMu.Unlock()
	if err != nil {
		return err
	}

	req.Leading = project.FilePath
	return s.launch(ctx, req, func(arg *domain.LaunchArgument) {
		arg.LastUsedProjectFileID = project.ID
		if req.ScriptID != "" {
			arg.LastUsedPythonScriptID = req.ScriptID
		}
	})
}

// CreateProjectFile has a build save an empty project at dir/name, then
// tracks it. An empty dir asks the user for a folder; a missing .blend
// extension is added.
func (s *Service) CreateProjectFile(ctx context.Context, buildID, dir, name string) (*domain.ProjectFile, error) {
	p, err := s.createProjectFile(ctx, buildID, dir, name)
	return p, s.report(ctx, "creating project file", err)
}

func (s *Service) createProjectFile(ctx context.Context, buildID, dir, name string) (*domain.ProjectFile, error) {
	build, err := s.resolveBuild(ctx, buildID)
	if err != nil {
		return nil, err
	}

	if dir == "" {
		picked, err := s.ui.PickFolder(ctx, "Select a folder for the new project")
		if err != nil {
			return nil, err
		}
		if picked == "" {
			return nil, domain.ErrCancelled
		}
		dir = picked
	}
	if name == "" {
		name = "untitled"
	}
	if !strings.EqualFold(filepath.Ext(name), ".blend") {
		name += ".blend"
	}
	target := filepath.Join(normalizePath(dir), filepath.Base(name))

	exists, err := pathExists(target)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.E(domain.KindFilesystem, "creating project file",
			fmt.Errorf("%s: %w", target, os.ErrExist))
	}

	expr := "import bpy; bpy.ops.wm.save_as_mainfile(filepath=" + strconv.Quote(target) + ")"
	if err := s.runner.Run(ctx, build.ExecutableFilePath, "--background", "--python-expr", expr); err != nil {
		return nil, err
	}

	project, err := s.trackProjectFile(ctx, target)
	if err != nil {
		return nil, err
	}
	project.LastUsedBuildID = build.ID

	s.projectsMu.Lock()
	defer s.projectsMu.Unlock()
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	s.log.Info("created project file", "path", target, "build", build.DisplayName())
	return project, nil
}
