package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"alfredoptarigan/resume-ranker/internal/models"
)

const (
	notAvailable         = "N/A"
	couldNotProcess      = "could not process"
	missingSkillsJoiner  = ", "
	ReportFilename       = "ranked_resumes.csv"
	reportColumnCount    = 5
	failedSkillsTemplate = couldNotProcess + ": %s"
)

var reportHeader = []string{"Rank", "Name", "Email", "Similarity", "Missing Skills"}

// ReportRow is one parsed line of a ranking report. Nil fields were rendered as N/A.
type ReportRow struct {
	Rank          int
	Name          *string
	Email         *string
	Similarity    *float64
	MissingSkills []string
	Failed        bool
	FailureReason string
}

// BuildCSV renders entries in the order given. Rank is the 1-based position.
func BuildCSV(entries []models.RankingEntry) (string, error) {
	var sb strings.Builder
	if err := WriteCSV(&sb, entries); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func WriteCSV(w io.Writer, entries []models.RankingEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for i, entry := range entries {
		if err := cw.Write(reportRecord(i+1, entry)); err != nil {
			return fmt.Errorf("failed to write report row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}
	return nil
}

func reportRecord(rank int, entry models.RankingEntry) []string {
	similarity := strconv.FormatFloat(entry.Similarity, 'f', -1, 64)
	missing := notAvailable
	if len(entry.MissingSkills) > 0 {
		missing = strings.Join(entry.MissingSkills, missingSkillsJoiner)
	}

	if entry.Failed() {
		similarity = notAvailable
		missing = fmt.Sprintf(failedSkillsTemplate, oneLine(entry.Error))
	}

	return []string{
		strconv.Itoa(rank),
		orNotAvailable(entry.Name),
		orNotAvailable(entry.Email),
		similarity,
		missing,
	}
}

// ParseCSV reads a report produced by WriteCSV.
func ParseCSV(r io.Reader) ([]ReportRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = reportColumnCount

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read report header: %w", err)
	}
	if strings.Join(header, ",") != strings.Join(reportHeader, ",") {
		return nil, fmt.Errorf("unexpected report header: %q", header)
	}

	var rows []ReportRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read report row: %w", err)
		}

		row, err := parseRecord(record)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRecord(record []string) (ReportRow, error) {
	rank, err := strconv.Atoi(record[0])
	if err != nil {
		return ReportRow{}, fmt.Errorf("invalid rank %q: %w", record[0], err)
	}

	row := ReportRow{
		Rank:  rank,
		Name:  fromNotAvailable(record[1]),
		Email: fromNotAvailable(record[2]),
	}

	if record[3] != notAvailable {
		similarity, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return ReportRow{}, fmt.Errorf("invalid similarity %q: %w", record[3], err)
		}
		row.Similarity = &similarity
	}

	failedPrefix := couldNotProcess + ": "
	switch missing := record[4]; {
	case row.Similarity == nil && strings.HasPrefix(missing, failedPrefix):
		row.Failed = true
		row.FailureReason = strings.TrimPrefix(missing, failedPrefix)
	case missing != notAvailable:
		row.MissingSkills = strings.Split(missing, missingSkillsJoiner)
	}

	return row, nil
}

func orNotAvailable(s *string) string {
	if s == nil || *s == "" {
		return notAvailable
	}
	return *s
}

func fromNotAvailable(s string) *string {
	if s == notAvailable {
		return nil
	}
	return &s
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
