package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tp",
	Short: "timeprojec – project timers in your terminal",
	Long: `tp keeps a list of projects, each with an accumulated time and an
optional running timer. Projects can be grouped with tags, adjusted by hand,
exported as reports and fed from an Outlook calendar.

Data lives in ~/.timeprojec/ (see config.yaml there for options).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(timeCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(tierCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(outlookCmd)
}
