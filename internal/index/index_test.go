package index

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/kailas-cloud/dinerec/internal/domain"
	"github.com/kailas-cloud/dinerec/internal/domain/restaurant"
)

func corpus() []restaurant.Restaurant {
	return []restaurant.Restaurant{
		restaurant.New(0, "A", "Thai noodles", "$", "", "", "", 4.2),
		restaurant.New(1, "B", "Thai BBQ", "$", "", "", "", 3.0),
		restaurant.New(2, "C", "Italian pizza", "$$", "", "", "", 4.9),
		restaurant.New(3, "D", "Thai noodles", "$", "", "", "", 3.7),
		restaurant.New(4, "E", "ก๋วยเตี๋ยว", "฿", "", "", "", 3.3),
	}
}

func TestBuild_EmptyCorpus(t *testing.T) {
	_, err := Build(nil, Config{})
	if !errors.Is(err, domain.ErrEmptyCorpus) {
		t.Fatalf("expected ErrEmptyCorpus, got %v", err)
	}
}

func TestBuild_VectorsNormalized(t *testing.T) {
	idx, err := Build(corpus(), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Len() != 5 {
		t.Fatalf("Len() = %d", idx.Len())
	}
	for i := 0; i < idx.Len(); i++ {
		v, _ := idx.Vector(i)
		if v.IsZero() {
			t.Errorf("record %d has zero vector", i)
			continue
		}
		if n := v.Dot(v); math.Abs(n-1) > 1e-9 {
			t.Errorf("record %d norm^2 = %v", i, n)
		}
	}
}

func TestBuild_MaxFeatures(t *testing.T) {
	idx, err := Build(corpus(), Config{MaxFeatures: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.VocabularySize() != 2 {
		t.Fatalf("VocabularySize() = %d, want 2", idx.VocabularySize())
	}
	// "thai" (3) and "noodles" (2) are the most frequent terms.
	if _, ok := idx.vocab["thai"]; !ok {
		t.Error("expected thai in vocabulary")
	}
	if _, ok := idx.vocab["noodles"]; !ok {
		t.Error("expected noodles in vocabulary")
	}
}

func TestQuery_SortedByDistance(t *testing.T) {
	idx, err := Build(corpus(), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hits := idx.Query(idx.Transform("thai noodles"), 0)
	if len(hits) != 5 {
		t.Fatalf("expected all 5 records (k defaults to 6), got %d", len(hits))
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Distance < hits[i-1].Distance {
			t.Fatalf("distances not non-decreasing: %+v", hits)
		}
	}
	if hits[0].Index != 0 && hits[0].Index != 3 {
		t.Errorf("expected a Thai noodles record first, got %+v", hits[0])
	}
	if hits[len(hits)-1].Distance != 1 {
		t.Errorf("unrelated record should be at distance 1: %+v", hits)
	}
}

func TestQuery_TiesByRecordOrder(t *testing.T) {
	recs := []restaurant.Restaurant{
		{ID: 0, CombinedFeatures: "pizza"},
		{ID: 1, CombinedFeatures: "sushi"},
		{ID: 2, CombinedFeatures: "sushi"},
		{ID: 3, CombinedFeatures: "pizza"},
	}
	idx, err := Build(recs, Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hits := idx.Query(idx.Transform("pizza"), 4)
	got := []int{hits[0].Index, hits[1].Index, hits[2].Index, hits[3].Index}
	if !reflect.DeepEqual(got, []int{0, 3, 1, 2}) {
		t.Errorf("order = %v, want [0 3 1 2]", got)
	}
}

func TestNeighbors(t *testing.T) {
	idx, err := Build(corpus(), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hits, err := idx.Neighbors(2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 2 || hits[0].Index != 2 {
		t.Errorf("expected self first, got %+v", hits)
	}
	if _, err := idx.Neighbors(99, 2); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	a, _ := Build(corpus(), Config{})
	b, _ := Build(corpus(), Config{})
	for i := 0; i < a.Len(); i++ {
		va, _ := a.Vector(i)
		vb, _ := b.Vector(i)
		if !reflect.DeepEqual(va, vb) {
			t.Fatalf("record %d vectors differ", i)
		}
	}
	qa := a.Query(a.Transform("thai"), 5)
	qb := b.Query(b.Transform("thai"), 5)
	if !reflect.DeepEqual(qa, qb) {
		t.Errorf("query results differ: %v vs %v", qa, qb)
	}
}

func TestCosineDistance_ZeroVector(t *testing.T) {
	v := Vector{Terms: []int{0}, Weights: []float64{1}}
	if d := CosineDistance(v, Vector{}); d != 1 {
		t.Errorf("distance to zero vector = %v, want 1", d)
	}
}

func TestConfigKey(t *testing.T) {
	if (Config{}).Key() != (Config{MaxFeatures: DefaultMaxFeatures}).Key() {
		t.Error("zero MaxFeatures should key like the default")
	}
	if (Config{}).Key() == (Config{MaxFeatures: 10}).Key() {
		t.Error("MaxFeatures should change the key")
	}
	if (Config{}).Key() == (Config{KeepStopWords: true}).Key() {
		t.Error("KeepStopWords should change the key")
	}
}
