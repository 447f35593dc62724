package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/JJeris/blendio/internal/core"
	"github.com/JJeris/blendio/internal/storage/db"

	"github.com/spf13/cobra"
)

var (
	projectBuild  string
	projectArgs   string
	projectScript string
	projectNoArgs bool
	projectDir    string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage tracked .blend files",
	Long: `Track .blend project files, open them in a build and keep Blender's own
recent-files lists in sync.`,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked project files",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Import Blender's recent-files lists",
	Long: `Read recent-files.txt of every Blender version's configuration, track the
files listed there and forget tracked files that no longer exist.`,
	Args: cobra.NoArgs,
	RunE: runProjectRefresh,
}

var projectAddCmd = &cobra.Command{
	Use:   "add [file]",
	Short: "Track a .blend file",
	Long:  `Track a .blend file. Without an argument a file picker is shown.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProjectAdd,
}

var projectRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a project file from disk",
	Long: `Delete the project file from disk, drop it from Blender's recent-files
lists and stop tracking it. You are asked for confirmation unless --yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectRemove,
}

var projectRevealCmd = &cobra.Command{
	Use:   "reveal <id>",
	Short: "Show a project's folder in the file manager",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectReveal,
}

var projectArchiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Zip a project file next to itself",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectArchive,
}

var projectOpenCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open a project file in Blender",
	Long: `Open a project file. Without --build the build it was last opened with is
used, then the default build.

Examples:
  blendio project open 5e1a...
  blendio project open 5e1a... --build 3f2c... --no-args`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectOpen,
}

var projectCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create an empty project file",
	Long: `Have a build save an empty project and track it. Without --dir a folder
picker is shown; ".blend" is added to the name when missing.

Examples:
  blendio project create shot-010 --dir ~/work`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProjectCreate,
}

func init() {
	for _, c := range []*cobra.Command{projectOpenCmd, projectCreateCmd} {
		c.Flags().StringVar(&projectBuild, "build", "", "build id (default: last used, then the default build)")
	}
	projectOpenCmd.Flags().StringVar(&projectArgs, "args", "", "launch argument id")
	projectOpenCmd.Flags().StringVar(&projectScript, "script", "", "python script id")
	projectOpenCmd.Flags().BoolVar(&projectNoArgs, "no-args", false, "do not pass the default launch argument")
	projectCreateCmd.Flags().StringVar(&projectDir, "dir", "", "folder for the new file")

	projectCmd.AddCommand(projectListCmd, projectRefreshCmd, projectAddCmd, projectRemoveCmd,
		projectRevealCmd, projectArchiveCmd, projectOpenCmd, projectCreateCmd)
	rootCmd.AddCommand(projectCmd)
}

func runProjectList(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	projects, err := svc.ProjectFiles(cmd.Context(), db.Filter{})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(projects)
	}
	if len(projects) == 0 {
		fmt.Println("No project files tracked.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSERIES\tPATH")
	fmt.Fprintln(w, "--\t----\t------\t----")
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, truncate(p.FileName, 32), strings.Join(p.Series(), ","), p.FilePath)
	}
	w.Flush()
	return nil
}

func runProjectRefresh(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	res, err := svc.RefreshProjectFiles(cmd.Context())
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(res)
	}
	fmt.Printf("Projects: %d added, %d removed\n", res.Added, res.Removed)
	return nil
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	var path string
	if len(args) == 1 {
		path = args[0]
	}
	project, err := svc.AddProjectFile(cmd.Context(), path)
	if err != nil || project == nil {
		return err
	}
	fmt.Printf("Tracking %s (%s)\n", project.FilePath, project.ID)
	return nil
}

func runProjectRemove(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	if err := svc.RemoveProjectFile(cmd.Context(), args[0]); err != nil {
		return err
	}
	if stillListed(cmd.Context(), svc.ProjectFiles, args[0]) {
		fmt.Printf("Kept project file %s\n", args[0])
		return nil
	}
	fmt.Printf("Deleted project file %s\n", args[0])
	return nil
}

func runProjectReveal(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	return svc.RevealProjectFile(cmd.Context(), args[0])
}

func runProjectArchive(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	path, err := svc.ArchiveProjectFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(map[string]string{"archive": path})
	}
	return nil
}

func runProjectOpen(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	req := core.LaunchRequest{BuildID: projectBuild, ScriptID: projectScript}
	if req.LaunchArgumentID, err = launchArgumentID(cmd.Context(), svc, projectArgs, projectNoArgs); err != nil {
		return err
	}
	return svc.OpenProjectFile(cmd.Context(), args[0], req)
}

func runProjectCreate(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	var name string
	if len(args) == 1 {
		name = args[0]
	}
	project, err := svc.CreateProjectFile(cmd.Context(), projectBuild, projectDir, name)
	if err != nil || project == nil {
		return err
	}
	if jsonOutput {
		return printJSON(project)
	}
	fmt.Printf("Created %s (%s)\n", project.FilePath, project.ID)
	return nil
}
