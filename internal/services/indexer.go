package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/resume-ranker/internal/models"
)

// IndexJob carries one ranked candidate to the semantic index.
type IndexJob struct {
	RunID    uuid.UUID
	Filename string
	Name     string
	Email    string
	Text     string
}

type CandidateIndexer interface {
	IndexCandidate(ctx context.Context, job IndexJob) error
	Search(ctx context.Context, query string, limit int) ([]models.CandidateMatch, error)
	DeleteRun(ctx context.Context, runID uuid.UUID) error
}

type candidateIndexer struct {
	gemini     GeminiService
	index      CandidateIndex
	chunker    TextChunker
	maxRetries int
}

func NewCandidateIndexer(gemini GeminiService, index CandidateIndex, maxRetries int) CandidateIndexer {
	if maxRetries <= 0 {
		maxRetries = 1
	}
	return &candidateIndexer{
		gemini:     gemini,
		index:      index,
		chunker:    NewTextChunker(),
		maxRetries: maxRetries,
	}
}

// IndexCandidate implements CandidateIndexer.
func (c *candidateIndexer) IndexCandidate(ctx context.Context, job IndexJob) error {
	chunks := c.chunker.ChunkText(job.Text, defaultChunkSize, defaultChunkOverlap)
	if len(chunks) == 0 {
		return fmt.Errorf("no text to index for %s", job.Filename)
	}

	for i, chunk := range chunks {
		embedding, err := retry(ctx, c.maxRetries, func() ([]float32, error) {
			return c.gemini.GenerateEmbedding(ctx, chunk)
		})
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d of %s: %w", i+1, job.Filename, err)
		}

		err = c.index.UpsertChunk(ctx, CandidateChunk{
			RunID:    job.RunID.String(),
			Filename: job.Filename,
			Name:     job.Name,
			Email:    job.Email,
			Text:     chunk,
		}, embedding)
		if err != nil {
			return fmt.Errorf("failed to store chunk %d of %s: %w", i+1, job.Filename, err)
		}
	}

	log.Printf("📊 Indexed %s in %d chunks\n", job.Filename, len(chunks))
	return nil
}

// Search implements CandidateIndexer.
func (c *candidateIndexer) Search(ctx context.Context, query string, limit int) ([]models.CandidateMatch, error) {
	embedding, err := c.gemini.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}
	return c.index.SearchSimilar(ctx, embedding, limit)
}

// DeleteRun implements CandidateIndexer.
func (c *candidateIndexer) DeleteRun(ctx context.Context, runID uuid.UUID) error {
	return c.index.DeleteRun(ctx, runID.String())
}

// retry calls fn up to attempts times with a linear backoff, stopping early when ctx
// is done.
func retry[T any](ctx context.Context, attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("context cancelled: %w", ctx.Err())
		case <-time.After(time.Duration(500*(i+1)) * time.Millisecond):
		}
	}
	return zero, fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
