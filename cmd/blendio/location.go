package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/JJeris/blendio/internal/storage/db"

	"github.com/spf13/cobra"
)

var locationClearDefault bool

var locationCmd = &cobra.Command{
	Use:     "location",
	Aliases: []string{"root"},
	Short:   "Manage installation locations",
	Long: `Installation locations are folders whose immediate subfolders hold Blender
builds. The default location is where downloads are installed.`,
}

var locationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installation locations",
	Args:  cobra.NoArgs,
	RunE:  runLocationList,
}

var locationAddCmd = &cobra.Command{
	Use:   "add [folder]",
	Short: "Add an installation location",
	Long: `Add a folder to scan for builds. Without an argument a folder picker is
shown. Adding a known folder does nothing.

Examples:
  blendio location add ~/blender`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLocationAdd,
}

var locationDefaultCmd = &cobra.Command{
	Use:   "default <id>",
	Short: "Mark a location as the download location",
	Args:  cobra.ExactArgs(1),
	RunE:  runLocationDefault,
}

var locationRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Forget an installation location",
	Long: `Forget an installation location and every build registered inside it.
Nothing is deleted from disk.`,
	Args: cobra.ExactArgs(1),
	RunE: runLocationRemove,
}

func init() {
	locationDefaultCmd.Flags().BoolVar(&locationClearDefault, "clear", false, "clear the default flag instead of setting it")

	locationCmd.AddCommand(locationListCmd, locationAddCmd, locationDefaultCmd, locationRemoveCmd)
	rootCmd.AddCommand(locationCmd)
}

func runLocationList(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	roots, err := svc.InstallationRoots(cmd.Context(), db.Filter{})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(roots)
	}
	if len(roots) == 0 {
		fmt.Println("No installation locations. Add one with 'blendio location add <folder>'.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDEFAULT\tPATH")
	fmt.Fprintln(w, "--\t-------\t----")
	for _, r := range roots {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, yesNo(r.IsDefault), r.DirectoryPath)
	}
	w.Flush()
	return nil
}

func runLocationAdd(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	var path string
	if len(args) == 1 {
		path = args[0]
	}
	root, err := svc.AddInstallationRoot(cmd.Context(), path)
	if err != nil || root == nil {
		return err
	}
	fmt.Printf("Added %s (%s)\n", root.DirectoryPath, root.ID)
	return nil
}

func runLocationDefault(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	return svc.SetInstallationRootDefault(cmd.Context(), args[0], !locationClearDefault)
}

func runLocationRemove(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	if err := svc.RemoveInstallationRoot(cmd.Context(), args[0]); err != nil {
		return err
	}
	if stillListed(cmd.Context(), svc.InstallationRoots, args[0]) {
		fmt.Printf("Kept location %s\n", args[0])
		return nil
	}
	fmt.Printf("Removed location %s\n", args[0])
	return nil
}
