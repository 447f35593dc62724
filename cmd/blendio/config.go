package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/JJeris/blendio/internal/storage/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Settings live in config.yaml inside the config directory.

Keys:
  feed_url            build feed to list downloads from
  recent_files_root   folder holding Blender's per-version configuration
  keybindings         vim or standard (TUI)
  log_level           debug, info, warn or error
  connect_timeout     feed connectivity probe timeout, e.g. 5s`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting and save config.yaml.

Examples:
  blendio config set keybindings standard
  blendio config set connect_timeout 10s`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(filepath.Join(getServiceConfig().ConfigDir, "config.yaml"))
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(getServiceConfig().ConfigDir)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cfg)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "feed_url\t%s\n", cfg.FeedURL)
	fmt.Fprintf(w, "recent_files_root\t%s\n", cfg.RecentFilesRoot)
	fmt.Fprintf(w, "keybindings\t%s\n", cfg.Keybindings)
	fmt.Fprintf(w, "log_level\t%s\n", cfg.LogLevel)
	fmt.Fprintf(w, "connect_timeout\t%s\n", cfg.ConnectTimeout)
	return w.Flush()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	dir := getServiceConfig().ConfigDir
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	if err := cfg.Set(args[0], args[1]); err != nil {
		return err
	}
	if err := cfg.Save(dir); err != nil {
		return err
	}
	if verbose {
		fmt.Printf("Set %s = %s\n", args[0], args[1])
	}
	return nil
}
