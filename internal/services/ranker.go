package services

import (
	"math"
	"sort"

	"alfredoptarigan/resume-ranker/internal/config"
)

type RankInput struct {
	ID   string
	Text string
}

type RankedDocument struct {
	ID    string
	Score float64
}

// SimilarityRanker scores documents against a description. The vector space is fitted
// on the description alone, so a document's score never depends on the rest of the
// batch.
type SimilarityRanker struct {
	cfg config.RankerConfig
}

func NewSimilarityRanker(cfg config.RankerConfig) *SimilarityRanker {
	return &SimilarityRanker{cfg: cfg}
}

// Score returns one score in [0,100] per document, in input order. When the
// description has no usable terms all scores are 0 and ErrEmptyDescription is returned
// alongside them.
func (r *SimilarityRanker) Score(description string, docs []RankInput) ([]RankedDocument, error) {
	scores := make([]RankedDocument, len(docs))
	for i, doc := range docs {
		scores[i] = RankedDocument{ID: doc.ID}
	}

	vectorizer := NewVectorizer(r.cfg)
	if err := vectorizer.Fit([]string{description}); err != nil {
		return scores, err
	}

	descVec, err := vectorizer.Transform(description)
	if err != nil {
		return nil, err
	}

	for i, doc := range docs {
		docVec, err := vectorizer.Transform(doc.Text)
		if err != nil {
			return nil, err
		}
		sim, err := Cosine(descVec, docVec)
		if err != nil {
			return nil, err
		}
		scores[i].Score = math.Min(100, math.Max(0, sim*100))
	}

	return scores, nil
}

// Rank is Score followed by a stable sort on score, highest first.
func (r *SimilarityRanker) Rank(description string, docs []RankInput) ([]RankedDocument, error) {
	scores, err := r.Score(description, docs)
	if scores != nil {
		SortByScore(scores)
	}
	return scores, err
}

// SortByScore orders by score descending; ties keep their input order.
func SortByScore(scores []RankedDocument) {
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
}
