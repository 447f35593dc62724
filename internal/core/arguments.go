package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/JJeris/blendio/internal/domain"
	"github.com/JJeris/blendio/internal/storage/db"
)

// ErrEmptyArgument is returned when a launch argument has no flags.
var ErrEmptyArgument = errors.New("launch argument is empty")

// AddLaunchArgument saves an argument string and returns its id. A string
// that is already saved only has its access time refreshed.
func (s *Service) AddLaunchArgument(ctx context.Context, argString, projectID, scriptID string) (string, error) {
	id, err := s.addLaunchArgument(ctx, argString, projectID, scriptID)
	return id, s.report(ctx, "saving launch argument", err)
}

func (s *Service) addLaunchArgument(ctx context.Context, argString, projectID, scriptID string) (string, error) {
	argString = strings.TrimSpace(argString)
	if argString == "" {
		return "", ErrEmptyArgument
	}

	s.argsMu.Lock()
	defer s.argsMu.Unlock()

	existing, err := s.args.ByKey(ctx, argString)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, s.args.Update(ctx, existing)
	}

	arg := &domain.LaunchArgument{
		ArgumentString:         argString,
		LastUsedProjectFileID:  projectID,
		LastUsedPythonScriptID: scriptID,
	}
	if err := s.args.Insert(ctx, arg); err != nil {
		return "", err
	}
	s.log.Info("saved launch argument", "id", arg.ID, "args", argString)
	return arg.ID, nil
}

// LaunchArguments returns the arguments selected by f, most recently used
// first.
func (s *Service) LaunchArguments(ctx context.Context, f db.Filter) ([]domain.LaunchArgument, error) {
	args, err := s.args.Fetch(ctx, f)
	if err != nil {
		return nil, s.report(ctx, "listing launch arguments", err)
	}
	sort.SliceStable(args, func(i, j int) bool {
		return args[i].Accessed.After(args[j].Accessed)
	})
	return args, nil
}

// SetLaunchArgumentDefault marks or clears the default launch argument
func (s *Service) SetLaunchArgumentDefault(ctx context.Context, id string, isDefault bool) error {
	s.argsMu.Lock()
	defer s.argsMu.Unlock()

	err := setDefault(ctx, s.args, id, isDefault)
	if err == nil {
		s.log.Info("launch argument default changed", "id", id, "default", isDefault)
	}
	return s.report(ctx, "setting default launch argument", err)
}

// DefaultLaunchArgument returns the default launch argument, or nil.
func (s *Service) DefaultLaunchArgument(ctx context.Context) (*domain.LaunchArgument, error) {
	arg, err := defaultOf(ctx, s.args)
	return arg, s.report(ctx, "finding default launch argument", err)
}

// RemoveLaunchArgument forgets a launch argument after confirmation
func (s *Service) RemoveLaunchArgument(ctx context.Context, id string) error {
	err := s.confirm(ctx, "Delete launch argument",
		fmt.Sprintf("Are you sure you want to delete launch argument %s?", id))
	if err == nil {
		s.argsMu.Lock()
		err = s.args.Delete(ctx, id)
		s.argsMu.Unlock()
	}
	return s.report(ctx, "removing launch argument", err)
}
