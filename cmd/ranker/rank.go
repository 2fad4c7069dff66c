package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-ranker/internal/config"
	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/services"
)

var (
	jobText string
	jobFile string
	outPath string
)

var rankCmd = &cobra.Command{
	Use:   "rank [flags] <resume files...>",
	Short: "Rank resume files and write ranked_resumes.csv",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRank,
}

func init() {
	rankCmd.Flags().StringVar(&jobText, "job", "", "job description text")
	rankCmd.Flags().StringVar(&jobFile, "job-file", "", "file holding the job description")
	rankCmd.Flags().StringVarP(&outPath, "out", "o", services.ReportFilename, "CSV report path")
	rootCmd.AddCommand(rankCmd)
}

var errNothingRanked = errors.New("no resume could be processed")

func runRank(cmd *cobra.Command, args []string) error {
	description, err := loadDescription()
	if err != nil {
		return err
	}

	docs, err := loadResumes(args)
	if err != nil {
		return err
	}

	cfg := config.Load()
	parser := services.NewDocumentParserService(cfg.Ranker.ExtractTimeout)
	run, err := services.NewRankingService(parser, cfg.Ranker).Rank(context.Background(), description, docs)
	if err != nil {
		return err
	}

	printRanking(cmd.OutOrStdout(), run)

	if err := writeReport(outPath, run.Entries); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nResults saved to %s\n", outPath)

	if len(run.RankedEntries()) == 0 {
		return errNothingRanked
	}
	return nil
}

func loadDescription() (string, error) {
	switch {
	case jobFile != "" && jobText != "":
		return "", errors.New("use either --job or --job-file, not both")
	case jobFile != "":
		data, err := os.ReadFile(jobFile)
		if err != nil {
			return "", fmt.Errorf("cannot read job description: %w", err)
		}
		return string(data), nil
	case jobText != "":
		return jobText, nil
	}
	return "", errors.New("a job description is required (--job or --job-file)")
}

func loadResumes(paths []string) ([]models.UploadedDocument, error) {
	docs := make([]models.UploadedDocument, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
		docs = append(docs, models.UploadedDocument{
			Filename: filepath.Base(path),
			MimeType: services.DetectFormat(path, ""),
			Content:  content,
		})
	}
	return docs, nil
}

func printRanking(w io.Writer, run *models.RankingRun) {
	for _, warning := range run.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}

	for _, entry := range run.Entries {
		if entry.Failed() {
			fmt.Fprintf(w, "Rank %d: %s could not be processed: %s\n", entry.Rank, entry.Filename, entry.Error)
			continue
		}

		missing := "N/A"
		if len(entry.MissingSkills) > 0 {
			missing = strings.Join(entry.MissingSkills, ", ")
		}
		fmt.Fprintf(w, "Rank %d: %s\n", entry.Rank, entry.Filename)
		fmt.Fprintf(w, "  Name: %s\n", orNA(entry.Name))
		fmt.Fprintf(w, "  Email: %s\n", orNA(entry.Email))
		fmt.Fprintf(w, "  Similarity: %.2f\n", entry.Similarity)
		fmt.Fprintf(w, "  Missing Skills: %s\n", missing)
	}
}

func writeReport(path string, entries []models.RankingEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create report: %w", err)
	}
	if err := services.WriteCSV(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func orNA(s *string) string {
	if s == nil {
		return "N/A"
	}
	return *s
}
