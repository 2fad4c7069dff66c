package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"alfredoptarigan/resume-ranker/internal/models"
)

// text-embedding-004 output size
const embeddingSize = 768

// CandidateChunk is one piece of a ranked resume stored in the semantic index.
type CandidateChunk struct {
	RunID    string
	Filename string
	Name     string
	Email    string
	Text     string
}

type CandidateIndex interface {
	InitCollection(ctx context.Context) error
	UpsertChunk(ctx context.Context, chunk CandidateChunk, embedding []float32) error
	SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int) ([]models.CandidateMatch, error)
	DeleteRun(ctx context.Context, runID string) error
}

type qdrantCandidateIndex struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewCandidateIndex(urlStr, apiKey, collectionName string) (CandidateIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantCandidateIndex{
		client:         client,
		collectionName: collectionName,
		vectorSize:     embeddingSize,
	}, nil
}

// InitCollection implements CandidateIndex.
func (q *qdrantCandidateIndex) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// UpsertChunk implements CandidateIndex.
func (q *qdrantCandidateIndex) UpsertChunk(ctx context.Context, chunk CandidateChunk, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(uuid.NewString()),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]any{
			"run_id":   chunk.RunID,
			"filename": chunk.Filename,
			"name":     chunk.Name,
			"email":    chunk.Email,
			"text":     chunk.Text,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// SearchSimilar implements CandidateIndex.
func (q *qdrantCandidateIndex) SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int) ([]models.CandidateMatch, error) {
	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]models.CandidateMatch, 0, len(points))
	for _, point := range points {
		payload := point.Payload
		results = append(results, models.CandidateMatch{
			RunID:    payloadString(payload, "run_id"),
			Filename: payloadString(payload, "filename"),
			Name:     payloadString(payload, "name"),
			Email:    payloadString(payload, "email"),
			Excerpt:  payloadString(payload, "text"),
			Score:    point.Score,
		})
	}

	return results, nil
}

// DeleteRun implements CandidateIndex.
func (q *qdrantCandidateIndex) DeleteRun(ctx context.Context, runID string) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("run_id", runID),
		},
	}

	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete run %s: %w", runID, err)
	}

	return nil
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	if value, ok := payload[key]; ok {
		if val, ok := value.GetKind().(*qdrant.Value_StringValue); ok {
			return val.StringValue
		}
	}
	return ""
}
