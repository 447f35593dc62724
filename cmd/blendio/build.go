package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/JJeris/blendio/internal/core"
	"github.com/JJeris/blendio/internal/domain"
	"github.com/JJeris/blendio/internal/storage/db"

	"github.com/spf13/cobra"
)

var (
	buildClearDefault bool
	buildLaunchArgs   string
	buildLaunchScript string
	buildNoArgs       bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Manage installed Blender builds",
	Long: `List, register, launch and uninstall Blender builds.

Builds are discovered in the installation locations (see 'blendio location')
or registered one by one with 'blendio build add'.`,
}

var buildListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed builds",
	Long: `List installed builds, newest version first.

Examples:
  blendio build list
  blendio build list --json`,
	Args: cobra.NoArgs,
	RunE: runBuildList,
}

var buildRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rescan installation locations for builds",
	Long: `Look for Blender executables directly inside every installation location,
register new builds and forget builds whose executable is gone.`,
	Args: cobra.NoArgs,
	RunE: runBuildRefresh,
}

var buildAddCmd = &cobra.Command{
	Use:   "add [executable]",
	Short: "Register a Blender executable",
	Long: `Register a Blender executable that lives outside the installation locations.
Without an argument a file picker is shown.

Examples:
  blendio build add ~/apps/blender-4.2.1-linux-x64/blender`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuildAdd,
}

var buildDefaultCmd = &cobra.Command{
	Use:   "default <id>",
	Short: "Mark a build as the default",
	Long: `Mark a build as the one used when no build is given. Only one build is
the default at a time.

Examples:
  blendio build default 3f2c...
  blendio build default 3f2c... --clear`,
	Args: cobra.ExactArgs(1),
	RunE: runBuildDefault,
}

var buildUninstallCmd = &cobra.Command{
	Use:   "uninstall <id>",
	Short: "Delete a build from disk",
	Long: `Delete the build's installation directory and forget the build.
You are asked for confirmation unless --yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuildUninstall,
}

var buildLaunchCmd = &cobra.Command{
	Use:   "launch [id]",
	Short: "Start a build",
	Long: `Start a build and wait for Blender to exit. Without an id the default
build is started. The default launch argument is passed unless --args or
--no-args is given.

Examples:
  blendio build launch
  blendio build launch 3f2c... --args 91ab... --script 07de...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuildLaunch,
}

var buildInstallCmd = &cobra.Command{
	Use:   "install <archive>",
	Short: "Install a downloaded build archive",
	Long: `Unpack a build archive next to itself, delete the archive and register the
build. The version is read from the archive name.

Examples:
  blendio build install ~/blender/blender-4.2.1-stable+v42.abc-linux.x86_64-release.tar.xz`,
	Args: cobra.ExactArgs(1),
	RunE: runBuildInstall,
}

func init() {
	buildDefaultCmd.Flags().BoolVar(&buildClearDefault, "clear", false, "clear the default flag instead of setting it")
	buildLaunchCmd.Flags().StringVar(&buildLaunchArgs, "args", "", "launch argument id")
	buildLaunchCmd.Flags().StringVar(&buildLaunchScript, "script", "", "python script id")
	buildLaunchCmd.Flags().BoolVar(&buildNoArgs, "no-args", false, "do not pass the default launch argument")

	buildCmd.AddCommand(buildListCmd, buildRefreshCmd, buildAddCmd, buildDefaultCmd,
		buildUninstallCmd, buildLaunchCmd, buildInstallCmd)
	rootCmd.AddCommand(buildCmd)
}

func runBuildList(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	builds, err := svc.InstalledBuilds(cmd.Context(), db.Filter{})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(builds)
	}
	if len(builds) == 0 {
		fmt.Println("No builds installed.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVERSION\tVARIANT\tDEFAULT\tEXECUTABLE")
	fmt.Fprintln(w, "--\t-------\t-------\t-------\t----------")
	for _, b := range builds {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", b.ID, b.Version, b.Variant, yesNo(b.IsDefault), b.ExecutableFilePath)
	}
	w.Flush()

	if verbose {
		fmt.Printf("\nTotal: %d build(s)\n", len(builds))
	}
	return nil
}

func runBuildRefresh(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	res, err := svc.RefreshInstalledBuilds(cmd.Context())
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(res)
	}
	fmt.Printf("Builds: %d added, %d removed\n", res.Added, res.Removed)
	return nil
}

func runBuildAdd(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	var path string
	if len(args) == 1 {
		path = args[0]
	}
	build, err := svc.AddInstalledBuild(cmd.Context(), path)
	if err != nil || build == nil {
		return err
	}
	fmt.Printf("Registered %s (%s)\n", build.DisplayName(), build.ID)
	return nil
}

func runBuildDefault(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	if err := svc.SetBuildDefault(cmd.Context(), args[0], !buildClearDefault); err != nil {
		return err
	}
	if buildClearDefault {
		fmt.Printf("Build %s is no longer the default\n", args[0])
	} else {
		fmt.Printf("Build %s is now the default\n", args[0])
	}
	return nil
}

func runBuildUninstall(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	if err := svc.UninstallBuild(cmd.Context(), args[0]); err != nil {
		return err
	}
	if stillListed(cmd.Context(), svc.InstalledBuilds, args[0]) {
		fmt.Printf("Kept build %s\n", args[0])
		return nil
	}
	fmt.Printf("Uninstalled build %s\n", args[0])
	return nil
}

func runBuildLaunch(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	req := core.LaunchRequest{ScriptID: buildLaunchScript}
	if len(args) == 1 {
		req.BuildID = args[0]
	}
	if req.LaunchArgumentID, err = launchArgumentID(cmd.Context(), svc, buildLaunchArgs, buildNoArgs); err != nil {
		return err
	}
	return svc.LaunchBuild(cmd.Context(), req)
}

// launchArgumentID returns explicit, or the default launch argument's id
// unless skipDefault is set.
func launchArgumentID(ctx context.Context, svc *core.Service, explicit string, skipDefault bool) (string, error) {
	if explicit != "" || skipDefault {
		return explicit, nil
	}
	arg, err := svc.DefaultLaunchArgument(ctx)
	if err != nil || arg == nil {
		return "", err
	}
	if verbose {
		fmt.Printf("Using default launch argument: %s\n", arg.ArgumentString)
	}
	return arg.ID, nil
}

func runBuildInstall(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	archive, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving archive path: %w", err)
	}
	version, variant := domain.ParseBuildDirName(core.Stem(filepath.Base(archive)))
	meta := domain.DownloadableBuild{
		Version:      version,
		ReleaseCycle: variant,
		FileName:     filepath.Base(archive),
	}

	build, err := svc.InstallFromArchive(cmd.Context(), archive, meta)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(build)
	}
	fmt.Printf("Installed %s into %s\n", build.DisplayName(), build.InstallationDirectoryPath)
	return nil
}
