package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/resume-ranker/internal/config"
	"alfredoptarigan/resume-ranker/internal/models"
)

const (
	emptyDescriptionWarning = "job description has no scorable terms; all similarity scores are 0"
	htmlDescriptionWarning  = "job description was converted from HTML to plain text before scoring"
)

type RankingService interface {
	// Rank extracts, profiles and scores every document. Failed documents stay in the
	// result with status failed. The Text field of each document is filled in when
	// extraction succeeds.
	Rank(ctx context.Context, description string, docs []models.UploadedDocument) (*models.RankingRun, error)
}

type rankingService struct {
	parser      DocumentParserService
	ranker      *SimilarityRanker
	concurrency int
}

func NewRankingService(parser DocumentParserService, cfg config.RankerConfig) RankingService {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &rankingService{
		parser:      parser,
		ranker:      NewSimilarityRanker(cfg),
		concurrency: concurrency,
	}
}

// Rank implements RankingService.
func (s *rankingService) Rank(ctx context.Context, description string, docs []models.UploadedDocument) (*models.RankingRun, error) {
	// plain text is scored exactly as given; only real markup is flattened
	description = strings.TrimSpace(description)
	var warnings []string
	if IsHTMLDescription(description) {
		description = NormalizeDescription(description)
		warnings = append(warnings, htmlDescriptionWarning)
	}
	run := &models.RankingRun{
		ID:             uuid.New(),
		JobDescription: description,
		Warnings:       warnings,
		CreatedAt:      time.Now(),
	}

	log.Printf("📄 Extracting text from %d documents\n", len(docs))
	extractErrs, err := s.extractAll(ctx, docs)
	if err != nil {
		return nil, err
	}

	requirements := NewRequirementSet(description)
	entries := make([]models.RankingEntry, len(docs))
	var inputs []RankInput
	var inputIdx []int

	for i, doc := range docs {
		entries[i] = models.RankingEntry{
			ID:       uuid.New(),
			RunID:    run.ID,
			Filename: doc.Filename,
			Status:   models.StatusRanked,
		}

		if extractErrs[i] != nil {
			log.Printf("⚠️  Skipping %s: %v\n", doc.Filename, extractErrs[i])
			entries[i].Status = models.StatusFailed
			entries[i].Error = extractErrs[i].Error()
			continue
		}

		email, name := ExtractEntities(doc.Text)
		entries[i].CandidateProfile = models.CandidateProfile{
			Name:          name,
			Email:         email,
			MissingSkills: requirements.Missing(doc.Text),
		}
		entries[i].Text = doc.Text
		inputs = append(inputs, RankInput{ID: doc.Filename, Text: doc.Text})
		inputIdx = append(inputIdx, i)
	}

	scores, err := s.ranker.Score(description, inputs)
	if err != nil {
		if !isEmptyDescription(err) {
			return nil, fmt.Errorf("failed to score documents: %w", err)
		}
		log.Println("⚠️  " + emptyDescriptionWarning)
		run.Warnings = append(run.Warnings, emptyDescriptionWarning)
	}
	for k, score := range scores {
		entries[inputIdx[k]].Similarity = score.Score
	}

	sortEntries(entries)
	for i := range entries {
		entries[i].Rank = i + 1
	}
	run.Entries = entries

	log.Printf("✅ Ranked %d of %d documents\n", len(inputs), len(docs))
	return run, nil
}

// extractAll fills docs[i].Text and returns the per-document extraction errors. Only a
// cancelled request context fails the whole call.
func (s *rankingService) extractAll(ctx context.Context, docs []models.UploadedDocument) ([]error, error) {
	errs := make([]error, len(docs))

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, err := s.parser.ExtractText(ctx, docs[i].Filename, docs[i].MimeType, docs[i].Content)
			if err != nil {
				errs[i] = err
				return nil
			}
			docs[i].Text = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ranking cancelled: %w", err)
	}
	return errs, nil
}

// sortEntries puts scored entries first by similarity, then failed ones. Equal keys keep
// their input order.
func sortEntries(entries []models.RankingEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Failed() != entries[j].Failed() {
			return !entries[i].Failed()
		}
		return entries[i].Similarity > entries[j].Similarity
	})
}
