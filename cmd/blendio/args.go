package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/JJeris/blendio/internal/storage/db"

	"github.com/spf13/cobra"
)

var (
	argsClearDefault bool
	argsMakeDefault  bool
)

var argsCmd = &cobra.Command{
	Use:   "args",
	Short: "Manage saved launch arguments",
	Long: `Launch arguments are reusable sets of Blender command-line flags. The
default one is passed when launching a build or opening a project.`,
}

var argsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List launch arguments, most recently used first",
	Args:  cobra.NoArgs,
	RunE:  runArgsList,
}

var argsAddCmd = &cobra.Command{
	Use:   "add <arguments>...",
	Short: "Save a launch argument",
	Long: `Save a set of flags. Saving the same flags twice returns the first one.
Put the flags after -- so they are not read as blendio flags.

Examples:
  blendio args add -- --factory-startup --no-window-focus
  blendio args add --default -- --debug-python`,
	Args: cobra.MinimumNArgs(1),
	RunE: runArgsAdd,
}

var argsDefaultCmd = &cobra.Command{
	Use:   "default <id>",
	Short: "Mark a launch argument as the default",
	Args:  cobra.ExactArgs(1),
	RunE:  runArgsDefault,
}

var argsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a launch argument",
	Args:  cobra.ExactArgs(1),
	RunE:  runArgsRemove,
}

func init() {
	argsAddCmd.Flags().BoolVar(&argsMakeDefault, "default", false, "also mark it as the default")
	argsDefaultCmd.Flags().BoolVar(&argsClearDefault, "clear", false, "clear the default flag instead of setting it")

	argsCmd.AddCommand(argsListCmd, argsAddCmd, argsDefaultCmd, argsRemoveCmd)
	rootCmd.AddCommand(argsCmd)
}

func runArgsList(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	list, err := svc.LaunchArguments(cmd.Context(), db.Filter{})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(list)
	}
	if len(list) == 0 {
		fmt.Println("No launch arguments saved.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDEFAULT\tARGUMENTS")
	fmt.Fprintln(w, "--\t-------\t---------")
	for _, a := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\n", a.ID, yesNo(a.IsDefault), truncate(a.ArgumentString, 60))
	}
	w.Flush()
	return nil
}

func runArgsAdd(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	id, err := svc.AddLaunchArgument(cmd.Context(), strings.Join(args, " "), "", "")
	if err != nil {
		return err
	}
	if argsMakeDefault {
		if err := svc.SetLaunchArgumentDefault(cmd.Context(), id, true); err != nil {
			return err
		}
	}
	fmt.Println(id)
	return nil
}

func runArgsDefault(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	return svc.SetLaunchArgumentDefault(cmd.Context(), args[0], !argsClearDefault)
}

func runArgsRemove(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	if err := svc.RemoveLaunchArgument(cmd.Context(), args[0]); err != nil {
		return err
	}
	if stillListed(cmd.Context(), svc.LaunchArguments, args[0]) {
		fmt.Printf("Kept launch argument %s\n", args[0])
		return nil
	}
	fmt.Printf("Deleted launch argument %s\n", args[0])
	return nil
}
