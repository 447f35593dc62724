package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/JJeris/blendio/internal/domain"
	"github.com/JJeris/blendio/internal/slogutil"
	"github.com/JJeris/blendio/internal/source/blender"
	"github.com/JJeris/blendio/internal/storage/config"
	"github.com/JJeris/blendio/internal/storage/db"
)

// ServiceConfig holds configuration for the core service
type ServiceConfig struct {
	ConfigDir    string // Directory for configuration files
	DataDir      string // Directory for the database
	DatabasePath string // Overrides DataDir/blendio.db, e.g. ":memory:"

	UI         UserInteraction // nil declines every prompt
	Runner     ProcessRunner   // nil runs processes locally
	Logger     *slog.Logger    // nil discards
	HTTPClient *http.Client    // nil means http.DefaultClient
	Clock      func() time.Time
}

// Service is the entry point for every blendio operation. Its methods are
// safe for concurrent use; writes to one collection are serialized.
type Service struct {
	config *config.Config
	db     *db.DB

	roots    *db.Repository[domain.InstallationRoot]
	builds   *db.Repository[domain.InstalledBuild]
	projects *db.Repository[domain.ProjectFile]
	args     *db.Repository[domain.LaunchArgument]
	scripts  *db.Repository[domain.PythonScript]

	ui         UserInteraction
	runner     ProcessRunner
	log        *slog.Logger
	feed       *blender.Client
	downloader *Downloader
	extractor  *Extractor
	archiver   *Archiver

	rootsMu    sync.Mutex
	buildsMu   sync.Mutex
	projectsMu sync.Mutex
	argsMu     sync.Mutex
	scriptsMu  sync.Mutex

	configDir string
	dataDir   string
}

// NewService creates a new core service instance
func NewService(cfg ServiceConfig) (*Service, error) {
	appConfig, err := config.Load(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	dbPath := cfg.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(cfg.DataDir, "blendio.db")
	}
	database, err := db.New(dbPath)
	if err != nil {
		return nil, domain.E(domain.KindStorage, "opening database", err)
	}

	s := &Service{
		config:     appConfig,
		db:         database,
		roots:      database.Roots(),
		builds:     database.Builds(),
		projects:   database.Projects(),
		args:       database.Arguments(),
		scripts:    database.Scripts(),
		ui:         cfg.UI,
		runner:     cfg.Runner,
		log:        cfg.Logger,
		feed:       blender.NewClient(cfg.HTTPClient, appConfig.FeedURL),
		downloader: NewDownloader(cfg.HTTPClient),
		extractor:  NewExtractor(),
		archiver:   NewArchiver(),
		configDir:  cfg.ConfigDir,
		dataDir:    cfg.DataDir,
	}
	s.feed.SetConnectTimeout(appConfig.ConnectTimeout)

	if s.ui == nil {
		s.ui = silentUI{}
	}
	if s.runner == nil {
		s.runner = NewLauncher()
	}
	if s.log == nil {
		s.log = slogutil.NewDiscardLogger()
	}
	if cfg.Clock != nil {
		s.roots.SetClock(cfg.Clock)
		s.builds.SetClock(cfg.Clock)
		s.projects.SetClock(cfg.Clock)
		s.args.SetClock(cfg.Clock)
		s.scripts.SetClock(cfg.Clock)
	}

	return s, nil
}

// Close releases resources held by the service
func (s *Service) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Config returns the loaded application settings
func (s *Service) Config() *config.Config {
	return s.config
}

// ConfigDir returns the configuration directory
func (s *Service) ConfigDir() string {
	return s.configDir
}

// SetUI swaps the user interaction used by later calls. Front-ends that
// take over the terminal install their own.
func (s *Service) SetUI(ui UserInteraction) {
	if ui == nil {
		ui = silentUI{}
	}
	s.ui = ui
}

// report logs err and shows it to the user before it is returned. A
// declined prompt or dismissed picker is not a failure: report returns nil
// and the operation has had no effect.
func (s *Service) report(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrCancelled) {
		s.log.Debug(op+" cancelled by user")
		return nil
	}
	s.log.Error(op+" failed", "kind", domain.KindOf(err).String(), "error", err)
	s.ui.Notify(ctx, NoticeError, fmt.Sprintf("%s failed: %v", op, err))
	return err
}

// confirm asks before a destructive step. A declined prompt is ErrCancelled.
func (s *Service) confirm(ctx context.Context, title, message string) error {
	ok, err := s.ui.Confirm(ctx, title, message)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Debug("confirmation declined", "title", title)
		return domain.ErrCancelled
	}
	return nil
}
