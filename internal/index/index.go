// Package index builds TF-IDF vectors over restaurant feature text and
// answers cosine k-nearest-neighbor queries. An Index is immutable after
// Build and may be shared across goroutines.
package index

import (
	"fmt"
	"math"
	"sort"

	"github.com/kailas-cloud/dinerec/internal/domain"
	"github.com/kailas-cloud/dinerec/internal/domain/restaurant"
)

// Defaults.
const (
	DefaultMaxFeatures = 5000
	// DefaultNeighbors is five neighbors plus the record itself.
	DefaultNeighbors = 6
)

// Config controls vectorization.
type Config struct {
	MaxFeatures int
	// KeepStopWords disables English stop-word removal.
	KeepStopWords bool
}

// Key identifies the effective configuration. Indexes built from the same
// records with equal keys produce identical vectors.
func (c Config) Key() string {
	mf := c.MaxFeatures
	if mf <= 0 {
		mf = DefaultMaxFeatures
	}
	return fmt.Sprintf("max_features=%d;keep_stop_words=%t", mf, c.KeepStopWords)
}

// Vector is a sparse L2-normalized weight vector with ascending term ids.
type Vector struct {
	Terms   []int
	Weights []float64
}

// IsZero reports whether the vector has no weight.
func (v Vector) IsZero() bool { return len(v.Terms) == 0 }

// Dot returns the inner product of two sparse vectors.
func (v Vector) Dot(o Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Terms) && j < len(o.Terms) {
		switch {
		case v.Terms[i] == o.Terms[j]:
			sum += v.Weights[i] * o.Weights[j]
			i++
			j++
		case v.Terms[i] < o.Terms[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// CosineDistance returns 1 - cosine similarity. Zero vectors are at distance 1.
func CosineDistance(a, b Vector) float64 {
	if a.IsZero() || b.IsZero() {
		return 1
	}
	d := 1 - a.Dot(b)
	if d < 0 {
		return 0
	}
	return d
}

// Neighbor is one k-NN hit.
type Neighbor struct {
	Index    int     `json:"index"`
	Distance float64 `json:"distance"`
}

// Index is the fitted vocabulary plus one vector per record.
type Index struct {
	vocab     map[string]int
	idf       []float64
	vectors   []Vector
	stopWords map[string]struct{}
}

// Build fits the vocabulary over records' combined features and vectorizes them.
func Build(records []restaurant.Restaurant, cfg Config) (*Index, error) {
	if len(records) == 0 {
		return nil, domain.ErrEmptyCorpus
	}
	if cfg.MaxFeatures <= 0 {
		cfg.MaxFeatures = DefaultMaxFeatures
	}
	stop := englishStopWords
	if cfg.KeepStopWords {
		stop = nil
	}

	tok := newTokenizer(stop)
	docs := make([][]string, len(records))
	termCount := make(map[string]int)
	docFreq := make(map[string]int)
	for i := range records {
		tokens := tok.Tokens(records[i].CombinedFeatures)
		docs[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			termCount[t]++
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				docFreq[t]++
			}
		}
	}

	terms := selectVocabulary(termCount, cfg.MaxFeatures)
	idx := &Index{
		vocab:     make(map[string]int, len(terms)),
		idf:       make([]float64, len(terms)),
		vectors:   make([]Vector, len(records)),
		stopWords: stop,
	}
	n := float64(len(records))
	for id, t := range terms {
		idx.vocab[t] = id
		idx.idf[id] = math.Log((1+n)/(1+float64(docFreq[t]))) + 1
	}
	for i, tokens := range docs {
		idx.vectors[i] = idx.vectorize(tokens)
	}
	return idx, nil
}

// selectVocabulary keeps the maxFeatures most frequent terms (ties by term)
// and returns them sorted, which fixes their ids.
func selectVocabulary(termCount map[string]int, maxFeatures int) []string {
	terms := make([]string, 0, len(termCount))
	for t := range termCount {
		terms = append(terms, t)
	}
	if len(terms) > maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			ci, cj := termCount[terms[i]], termCount[terms[j]]
			if ci != cj {
				return ci > cj
			}
			return terms[i] < terms[j]
		})
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)
	return terms
}

func (idx *Index) vectorize(tokens []string) Vector {
	counts := make(map[int]int)
	for _, t := range tokens {
		if id, ok := idx.vocab[t]; ok {
			counts[id]++
		}
	}
	v := Vector{Terms: make([]int, 0, len(counts)), Weights: make([]float64, 0, len(counts))}
	for id := range counts {
		v.Terms = append(v.Terms, id)
	}
	sort.Ints(v.Terms)

	var norm float64
	for _, id := range v.Terms {
		w := float64(counts[id]) * idx.idf[id]
		v.Weights = append(v.Weights, w)
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range v.Weights {
			v.Weights[i] /= norm
		}
	}
	return v
}

// Transform vectorizes arbitrary text with the fitted vocabulary.
func (idx *Index) Transform(text string) Vector {
	return idx.vectorize(newTokenizer(idx.stopWords).Tokens(text))
}

// Len returns the number of indexed records.
func (idx *Index) Len() int { return len(idx.vectors) }

// VocabularySize returns the number of kept terms.
func (idx *Index) VocabularySize() int { return len(idx.idf) }

// Vector returns the stored vector of record id.
func (idx *Index) Vector(id int) (Vector, bool) {
	if id < 0 || id >= len(idx.vectors) {
		return Vector{}, false
	}
	return idx.vectors[id], true
}

// Distance returns the cosine distance between record id and vec.
func (idx *Index) Distance(id int, vec Vector) float64 {
	v, ok := idx.Vector(id)
	if !ok {
		return 1
	}
	return CosineDistance(v, vec)
}

// Query returns the k nearest records to vec by cosine distance, ascending,
// ties broken by record order. k <= 0 means DefaultNeighbors.
func (idx *Index) Query(vec Vector, k int) []Neighbor {
	if k <= 0 {
		k = DefaultNeighbors
	}
	if k > len(idx.vectors) {
		k = len(idx.vectors)
	}
	all := make([]Neighbor, len(idx.vectors))
	for i, v := range idx.vectors {
		all[i] = Neighbor{Index: i, Distance: CosineDistance(v, vec)}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Distance < all[j].Distance
	})
	return all[:k]
}

// Neighbors queries with the stored vector of record id; the record itself is included.
func (idx *Index) Neighbors(id, k int) ([]Neighbor, error) {
	v, ok := idx.Vector(id)
	if !ok {
		return nil, fmt.Errorf("record %d: %w", id, domain.ErrNotFound)
	}
	return idx.Query(v, k), nil
}
