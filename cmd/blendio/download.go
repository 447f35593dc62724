package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/JJeris/blendio/internal/core"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/spf13/cobra"
)

var (
	downloadRoot   string
	downloadBranch string
)

var downloadCmd = &cobra.Command{
	Use:   "download [file-name-or-url]",
	Short: "Download a build from the build feed",
	Long: `Without an argument, list the builds the feed offers for this platform.
With a file name or URL from that list, download it into the default
installation location (or --root) and install it.

Examples:
  blendio download
  blendio download --branch main
  blendio download blender-4.3.0-alpha+main.1a2b3c4d5e6f-linux.x86_64-release.tar.xz`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVar(&downloadRoot, "root", "", "installation location id (default: the download location)")
	downloadCmd.Flags().StringVar(&downloadBranch, "branch", "", "only list builds of this branch")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	if len(args) == 0 {
		return listDownloadable(cmd, svc)
	}

	build, err := svc.FindDownloadable(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	var progressFn core.ProgressFunc
	if !jsonOutput {
		fmt.Printf("Downloading %s\n", build.FileName)
		progressFn = newProgressPrinter()
	}

	installed, err := svc.DownloadAndInstall(cmd.Context(), *build, downloadRoot, progressFn)
	if progressFn != nil {
		fmt.Println()
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(installed)
	}
	fmt.Printf("Installed %s into %s\n", installed.DisplayName(), installed.InstallationDirectoryPath)
	return nil
}

func listDownloadable(cmd *cobra.Command, svc *core.Service) error {
	builds, err := svc.DownloadableBuilds(cmd.Context())
	if err != nil {
		return err
	}
	if downloadBranch != "" {
		filtered := builds[:0]
		for _, b := range builds {
			if b.Branch == downloadBranch {
				filtered = append(filtered, b)
			}
		}
		builds = filtered
	}

	if jsonOutput {
		return printJSON(builds)
	}
	if len(builds) == 0 {
		fmt.Println("No builds available for this platform.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tCYCLE\tBRANCH\tSIZE\tBUILT\tFILE")
	fmt.Fprintln(w, "-------\t-----\t------\t----\t-----\t----")
	for _, b := range builds {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			b.Version,
			b.ReleaseCycle,
			b.Branch,
			formatSize(b.FileSize),
			time.Unix(b.FileMtime, 0).Format("2006-01-02"),
			b.FileName,
		)
	}
	w.Flush()
	return nil
}

// newProgressPrinter redraws a progress bar on one line
func newProgressPrinter() core.ProgressFunc {
	opts := []progress.Option{progress.WithWidth(40)}
	if colorEnabled() {
		opts = append(opts, progress.WithDefaultGradient())
	} else {
		opts = append(opts, progress.WithSolidFill("7"))
	}
	bar := progress.New(opts...)
	return func(p core.DownloadProgress) {
		if p.TotalBytes <= 0 {
			fmt.Printf("\r  %s", formatSize(p.Downloaded))
			return
		}
		fmt.Printf("\r  %s %s", bar.ViewAs(p.Percentage/100), formatSize(p.Downloaded))
	}
}

// formatSize renders a byte count with a binary unit
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
