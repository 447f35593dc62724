package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/JJeris/blendio/internal/core"
	"github.com/JJeris/blendio/internal/domain"
	"github.com/JJeris/blendio/internal/interact"
	"github.com/JJeris/blendio/internal/slogutil"
	"github.com/JJeris/blendio/internal/storage/config"
	"github.com/JJeris/blendio/internal/storage/db"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	version = "0.3.0"

	// Global flags
	configDir  string
	dataDir    string
	verbose    bool
	jsonOutput bool
	assumeYes  bool
	noColor    bool

	// logFileName, when set, sends logs to that file in the data directory
	// instead of stderr.
	logFileName string
	logCloser   io.Closer

	// activeUI is the user interaction the last initService installed
	activeUI core.UserInteraction
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "blendio",
	Short: "blendio - manage Blender installations from the terminal",
	Long: `blendio keeps track of Blender builds, the folders they live in, the
.blend files you work on and the launch arguments and Python scripts you
start Blender with. It can download new builds from the Blender Foundation's
build feed.

Use subcommands for operations, or 'blendio tui' for the interactive view.`,
	Version:       version,
	SilenceUsage:  true, // Runtime errors should not print usage
	SilenceErrors: true, // We handle error output in Execute()
}

func init() {
	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default: ~/.config/blendio)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default: ~/.local/share/blendio)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format (list commands, download, project archive)")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to every confirmation")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// colorEnabled returns true if colored output should be used (respects --no-color and NO_COLOR env).
// NO_COLOR: if set (any value), color is disabled per https://no-color.org
func colorEnabled() bool {
	if noColor {
		return false
	}
	return os.Getenv("NO_COLOR") == ""
}

// Execute runs the root command. Exit codes: 0 = success, 1 = error, 2 = interrupted.
// When --json is set and an error occurs, prints {"error":"..."} to stdout before exiting.
// Ctrl-C cancels the running command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(exitCode(err, os.Stdout, os.Stderr))
	}
}

// exitCode prints err the way Execute does and returns the process exit code.
// Errors the service already showed through the user interaction are not
// printed again.
func exitCode(err error, stdout, stderr io.Writer) int {
	if errors.Is(err, context.Canceled) || errors.Is(err, domain.ErrCancelled) {
		return 2
	}
	if jsonOutput {
		fmt.Fprintf(stdout, `{"error":%q}`+"\n", err.Error())
		return 1
	}
	if r, ok := activeUI.(interface{ Reported() bool }); ok && r.Reported() {
		return 1
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

// initService creates and initializes the core service
func initService() (*core.Service, error) {
	cfg := getServiceConfig()

	// Ensure directories exist
	if err := os.MkdirAll(cfg.ConfigDir, 0755); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	appConfig, err := config.Load(cfg.ConfigDir)
	if err != nil {
		return nil, err
	}
	level := slogutil.LevelFromVerbosity(verbose, appConfig.LogLevel)
	if logFileName != "" {
		logger, closer, err := slogutil.NewFileLogger(filepath.Join(cfg.DataDir, logFileName), level)
		if err != nil {
			return nil, err
		}
		cfg.Logger, logCloser = logger, closer
	} else {
		cfg.Logger = slogutil.NewLogger(os.Stderr, level)
	}
	cfg.UI = newUI(level)
	activeUI = cfg.UI

	return core.NewService(cfg)
}

// newUI picks how prompts are answered. Without a terminal on stdin, or with
// --yes, nobody is asked and confirmations get a fixed answer.
func newUI(level slog.Level) core.UserInteraction {
	if assumeYes || !term.IsTerminal(int(os.Stdin.Fd())) {
		h := interact.NewHeadless(os.Stderr, assumeYes)
		if level > slog.LevelInfo {
			h.Quiet(core.NoticeWarning)
		}
		return h
	}
	return interact.NewTerminal(os.Stderr, !colorEnabled())
}

// getServiceConfig returns the service configuration with defaults
func getServiceConfig() core.ServiceConfig {
	cfg := core.ServiceConfig{
		ConfigDir: config.ExpandPath(configDir),
		DataDir:   config.ExpandPath(dataDir),
	}
	if cfg.ConfigDir == "" {
		cfg.ConfigDir = config.DefaultConfigDir()
	}
	if cfg.DataDir == "" {
		cfg.DataDir = config.DefaultDataDir()
	}
	return cfg
}

// stillListed reports whether the row with id still exists, which after a
// removal means the user declined it.
func stillListed[T any](ctx context.Context, list func(context.Context, db.Filter) ([]T, error), id string) bool {
	items, err := list(ctx, db.Filter{ID: id})
	return err == nil && len(items) > 0
}

// printJSON writes v indented to stdout
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// yesNo renders a flag column
func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// truncate shortens s to max runes, marking the cut with "..."
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
