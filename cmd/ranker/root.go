package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "ranker",
	Short:        "Rank resumes against a job description",
	SilenceUsage: true,
	Long: `ranker scores resumes (PDF, DOCX or plain text) against a job description
and writes the ranking to a CSV report.`,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
