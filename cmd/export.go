package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timeprojec/internal/report"
)

var (
	exportFormat string
	exportOut    string
	exportAll    bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export projects and their times",
	Long: `Writes the projects matching the tag filter to stdout, or to --out.
PDF output always needs --out.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md, yaml, pdf")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Write to this file instead of stdout")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Ignore the tag filter")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(exportFormat)
	if err != nil {
		userError(err)
	}
	if format == report.FormatPDF && exportOut == "" {
		userError(fmt.Errorf("pdf export needs --out <file>"))
	}

	a := openApp()
	defer a.close()

	r := buildReport(a, exportAll, time.Now())
	if err := writeReport(format, exportOut, r); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if exportOut != "" {
		fmt.Printf("Exported %d project(s) to %s\n", len(r.Projects), exportOut)
	}
	return nil
}

func buildReport(a *app, all bool, now time.Time) report.Report {
	projects := a.store.FilteredProjects()
	filter := ""
	if all {
		projects = a.store.Projects()
	} else if t, ok := a.store.Tag(a.store.SelectedTag()); ok {
		filter = t.Name
	}
	return report.Build(projects, a.store.Tags(), filter, a.prefs.ShowSeconds(), now)
}

// writeReport writes r to path, or to stdout when path is empty.
func writeReport(format report.Format, path string, r report.Report) error {
	if format == report.FormatPDF {
		return report.WritePDF(path, r)
	}
	if path == "" {
		return report.Write(os.Stdout, format, r)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := report.Write(f, format, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
