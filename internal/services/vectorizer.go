package services

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"

	"alfredoptarigan/resume-ranker/internal/config"
)

// Vectorizer is a TF-IDF vector space. It is fitted once and then only transforms;
// terms outside the fitted vocabulary are dropped.
type Vectorizer struct {
	cfg        config.RankerConfig
	stopWords  map[string]bool
	vocabulary map[string]int
	idf        []float64
}

func NewVectorizer(cfg config.RankerConfig) *Vectorizer {
	stopWords := make(map[string]bool, len(cfg.StopWords))
	for _, w := range cfg.StopWords {
		if cfg.Lowercase {
			w = strings.ToLower(w)
		}
		stopWords[w] = true
	}
	return &Vectorizer{cfg: cfg, stopWords: stopWords}
}

// Tokenize splits text into runs of letters, digits and underscores that are at least
// two characters long.
func (v *Vectorizer) Tokenize(text string) []string {
	if v.cfg.Lowercase {
		text = strings.ToLower(text)
	}

	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})

	out := tokens[:0]
	for _, tok := range tokens {
		if len([]rune(tok)) < 2 || v.stopWords[tok] {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Fit builds the vocabulary and IDF weights from corpus. It returns
// ErrEmptyDescription when no term survives tokenization.
func (v *Vectorizer) Fit(corpus []string) error {
	docFreq := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]bool)
		for _, tok := range v.Tokenize(doc) {
			if !seen[tok] {
				seen[tok] = true
				docFreq[tok]++
			}
		}
	}

	if len(docFreq) == 0 {
		v.vocabulary = nil
		v.idf = nil
		return ErrEmptyDescription
	}

	terms := make([]string, 0, len(docFreq))
	for term := range docFreq {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(corpus))
	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	for i, term := range terms {
		df := float64(docFreq[term])
		v.vocabulary[term] = i
		if v.cfg.SmoothIDF {
			v.idf[i] = math.Log((1+n)/(1+df)) + 1
		} else {
			v.idf[i] = math.Log(n/df) + 1
		}
	}
	return nil
}

// Vocabulary returns the fitted terms in index order.
func (v *Vectorizer) Vocabulary() []string {
	terms := make([]string, len(v.vocabulary))
	for term, i := range v.vocabulary {
		terms[i] = term
	}
	return terms
}

// Transform maps text into the fitted space as an L2-normalised vector.
func (v *Vectorizer) Transform(text string) ([]float64, error) {
	if v.vocabulary == nil {
		return nil, &VectorizationError{Message: "vectorizer is not fitted"}
	}

	vec := make([]float64, len(v.vocabulary))
	for _, tok := range v.Tokenize(text) {
		if i, ok := v.vocabulary[tok]; ok {
			vec[i]++
		}
	}

	for i, tf := range vec {
		if tf == 0 {
			continue
		}
		if v.cfg.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		vec[i] = tf * v.idf[i]
	}

	return normalizeL2(vec), nil
}

// Cosine computes the cosine similarity of two vectors of equal length. Zero vectors
// have similarity 0.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, &VectorizationError{Message: "vector length mismatch"}
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	den := math.Sqrt(na) * math.Sqrt(nb)
	if den == 0 {
		return 0, nil
	}
	return dot / den, nil
}

func normalizeL2(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return v
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] *= inv
	}
	return v
}

func isEmptyDescription(err error) bool {
	return errors.Is(err, ErrEmptyDescription)
}
