package tui

import (
	"context"

	"github.com/JJeris/blendio/internal/core"
	"github.com/JJeris/blendio/internal/domain"
	"github.com/JJeris/blendio/internal/storage/db"
)

// Backend is the part of core.Service the TUI drives.
type Backend interface {
	InstalledBuilds(ctx context.Context, f db.Filter) ([]domain.InstalledBuild, error)
	RefreshInstalledBuilds(ctx context.Context) (core.RefreshResult, error)
	SetBuildDefault(ctx context.Context, id string, isDefault bool) error
	UninstallBuild(ctx context.Context, id string) error
	LaunchBuild(ctx context.Context, req core.LaunchRequest) error

	ProjectFiles(ctx context.Context, f db.Filter) ([]domain.ProjectFile, error)
	RefreshProjectFiles(ctx context.Context) (core.RefreshResult, error)
	OpenProjectFile(ctx context.Context, projectID string, req core.LaunchRequest) error
	RevealProjectFile(ctx context.Context, id string) error
	ArchiveProjectFile(ctx context.Context, id string) (string, error)
	RemoveProjectFile(ctx context.Context, id string) error

	LaunchArguments(ctx context.Context, f db.Filter) ([]domain.LaunchArgument, error)
	DefaultLaunchArgument(ctx context.Context) (*domain.LaunchArgument, error)
	AddLaunchArgument(ctx context.Context, argString, projectID, scriptID string) (string, error)
	SetLaunchArgumentDefault(ctx context.Context, id string, isDefault bool) error
	RemoveLaunchArgument(ctx context.Context, id string) error

	InstallationRoots(ctx context.Context, f db.Filter) ([]domain.InstallationRoot, error)
	AddInstallationRoot(ctx context.Context, path string) (*domain.InstallationRoot, error)
	SetInstallationRootDefault(ctx context.Context, id string, isDefault bool) error
	RemoveInstallationRoot(ctx context.Context, id string) error
}

var _ Backend = (*core.Service)(nil)
