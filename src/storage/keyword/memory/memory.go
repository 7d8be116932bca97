package memory

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"booktutor/src/storage/keyword"
)

// Index is an in-process TF-IDF ranking structure. Each collection keeps
// a vocabulary with smoothed IDF values and one L2-normalized sparse
// vector per document, so search scores reduce to dot products.
type Index struct {
	mu           sync.RWMutex
	collections  map[string]*collection
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

type collection struct {
	vocabulary map[string]int
	idf        []float64
	docs       []docVector
}

type docVector struct {
	key     string
	weights map[int]float64
}

// NewIndex creates an empty keyword index
func NewIndex() *Index {
	return &Index{
		collections:  make(map[string]*collection),
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

// Rebuild replaces the named collection with an index over docs
func (x *Index) Rebuild(ctx context.Context, name string, docs []keyword.Document) error {
	if len(docs) == 0 {
		return fmt.Errorf("empty document set for collection %s", name)
	}

	// Document frequencies
	df := make(map[string]int)
	tokenized := make([][]string, len(docs))
	for i, doc := range docs {
		tokens := x.tokenize(doc.Text)
		tokenized[i] = tokens
		seen := make(map[string]struct{})
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	// Stable vocabulary ordering
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return fmt.Errorf("no tokens found in collection %s", name)
	}

	col := &collection{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
	}
	n := float64(len(docs))
	for i, term := range terms {
		col.vocabulary[term] = i
		// Smoothed IDF
		col.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}

	col.docs = make([]docVector, 0, len(docs))
	for i, doc := range docs {
		col.docs = append(col.docs, docVector{
			key:     doc.Key,
			weights: col.vectorize(tokenized[i]),
		})
	}

	x.mu.Lock()
	x.collections[name] = col
	x.mu.Unlock()

	return nil
}

// Search ranks the collection's documents against the query by cosine
// similarity of TF-IDF vectors
func (x *Index) Search(ctx context.Context, name string, query string, limit int) ([]keyword.Hit, error) {
	x.mu.RLock()
	col, ok := x.collections[name]
	x.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown collection %s", name)
	}

	queryVec := col.vectorize(x.tokenize(query))
	if len(queryVec) == 0 {
		return nil, nil
	}

	hits := make([]keyword.Hit, 0, len(col.docs))
	for _, doc := range col.docs {
		score := dot(queryVec, doc.weights)
		if score <= 0 {
			continue
		}
		hits = append(hits, keyword.Hit{Key: doc.key, Score: score})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Key < hits[j].Key
	})

	if limit <= 0 {
		limit = keyword.DefaultSearchLimit
	}
	if limit < len(hits) {
		hits = hits[:limit]
	}

	return hits, nil
}

// Drop forgets the named collection
func (x *Index) Drop(ctx context.Context, name string) error {
	x.mu.Lock()
	delete(x.collections, name)
	x.mu.Unlock()
	return nil
}

// vectorize builds an L2-normalized sparse TF-IDF vector over the
// collection's vocabulary; out-of-vocabulary tokens are ignored
func (c *collection) vectorize(tokens []string) map[int]float64 {
	tf := make(map[int]int)
	total := 0
	for _, tok := range tokens {
		if idx, ok := c.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	vec := make(map[int]float64, len(tf))
	norm := 0.0
	for idx, count := range tf {
		w := (float64(count) / float64(total)) * c.idf[idx]
		vec[idx] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for idx := range vec {
			vec[idx] /= norm
		}
	}

	return vec
}

func dot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	sum := 0.0
	for idx, av := range a {
		if bv, ok := b[idx]; ok {
			sum += av * bv
		}
	}
	return sum
}

func (x *Index) tokenize(text string) []string {
	raw := x.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		if _, isStop := x.stopwords[tok]; isStop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
