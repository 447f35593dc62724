package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/JJeris/blendio/internal/storage/db"

	"github.com/spf13/cobra"
)

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Manage Python scripts passed to Blender",
	Long: `Python scripts are passed to Blender with --python when a build is
launched with --script.`,
}

var scriptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List python scripts",
	Args:  cobra.NoArgs,
	RunE:  runScriptList,
}

var scriptAddCmd = &cobra.Command{
	Use:   "add [file]",
	Short: "Register a python script",
	Long: `Register a .py file. Without an argument a file picker is shown.

Examples:
  blendio script add ~/scripts/render_all.py`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScriptAdd,
}

var scriptRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Forget a python script",
	Long:  `Forget a python script. The file itself is kept.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runScriptRemove,
}

var scriptRevealCmd = &cobra.Command{
	Use:   "reveal <id>",
	Short: "Show a script's folder in the file manager",
	Args:  cobra.ExactArgs(1),
	RunE:  runScriptReveal,
}

func init() {
	scriptCmd.AddCommand(scriptListCmd, scriptAddCmd, scriptRemoveCmd, scriptRevealCmd)
	rootCmd.AddCommand(scriptCmd)
}

func runScriptList(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	scripts, err := svc.PythonScripts(cmd.Context(), db.Filter{})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(scripts)
	}
	if len(scripts) == 0 {
		fmt.Println("No python scripts registered.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPATH")
	fmt.Fprintln(w, "--\t----")
	for _, s := range scripts {
		fmt.Fprintf(w, "%s\t%s\n", s.ID, s.ScriptFilePath)
	}
	w.Flush()
	return nil
}

func runScriptAdd(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	var path string
	if len(args) == 1 {
		path = args[0]
	}
	id, err := svc.AddPythonScript(cmd.Context(), path)
	if err != nil || id == "" {
		return err
	}
	fmt.Println(id)
	return nil
}

func runScriptRemove(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	if err := svc.RemovePythonScript(cmd.Context(), args[0]); err != nil {
		return err
	}
	if stillListed(cmd.Context(), svc.PythonScripts, args[0]) {
		fmt.Printf("Kept python script %s\n", args[0])
	}
	return nil
}

func runScriptReveal(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	return svc.RevealPythonScript(cmd.Context(), args[0])
}
