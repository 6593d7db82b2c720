package recommend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dinerec/internal/dataset"
	"github.com/kailas-cloud/dinerec/internal/domain"
	"github.com/kailas-cloud/dinerec/internal/domain/criteria"
	"github.com/kailas-cloud/dinerec/internal/domain/restaurant"
	logpkg "github.com/kailas-cloud/dinerec/internal/logger"
	"github.com/kailas-cloud/dinerec/internal/metrics"
)

// Similar is one neighbor of a restaurant.
type Similar struct {
	Restaurant restaurant.Restaurant
	Distance   float64
}

// Stats summarizes the loaded catalog.
type Stats struct {
	Records    int
	Skipped    int
	IndexReady bool
}

// Service answers recommendation queries over the loaded dataset.
// All collaborators are read-only after construction.
type Service struct {
	ds    *dataset.Dataset
	idx   Index
	cache Cache
}

// New creates a recommendation service. idx and cache may be nil.
func New(ds *dataset.Dataset, idx Index, cache Cache) *Service {
	return &Service{ds: ds, idx: idx, cache: cache}
}

// Recommend returns restaurants matching c. An empty slice means no matches.
func (s *Service) Recommend(ctx context.Context, c *criteria.Criteria) []restaurant.Restaurant {
	logger := logpkg.FromContext(ctx)

	if out, ok := s.fromCache(ctx, c); ok {
		s.observe(c, out)
		return out
	}

	out := Recommend(s.ds.Records, c, s.idx)

	if s.cache != nil {
		ids := make([]int, len(out))
		for i := range out {
			ids[i] = out[i].ID
		}
		s.cache.Put(ctx, s.ds.Fingerprint, c, ids)
	}

	logger.Debug("Recommendation computed",
		zap.String("category", c.Category()),
		zap.String("price_level", c.PriceLevel()),
		zap.Float64("min_rating", c.MinRating()),
		zap.String("order", string(c.Order())),
		zap.Int("results", len(out)),
	)
	s.observe(c, out)
	return out
}

func (s *Service) fromCache(ctx context.Context, c *criteria.Criteria) ([]restaurant.Restaurant, bool) {
	if s.cache == nil {
		return nil, false
	}
	ids, ok := s.cache.Get(ctx, s.ds.Fingerprint, c)
	if !ok {
		metrics.RecommendationCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	out := make([]restaurant.Restaurant, 0, len(ids))
	for _, id := range ids {
		r, found := s.ds.Get(id)
		if !found {
			logpkg.FromContext(ctx).Warn("Cached recommendation references unknown record", zap.Int("id", id))
			metrics.RecommendationCacheTotal.WithLabelValues("miss").Inc()
			return nil, false
		}
		out = append(out, r)
	}
	metrics.RecommendationCacheTotal.WithLabelValues("hit").Inc()
	return out, true
}

func (s *Service) observe(c *criteria.Criteria, out []restaurant.Restaurant) {
	outcome := "results"
	if len(out) == 0 {
		outcome = "empty"
	}
	metrics.RecommendationsTotal.WithLabelValues(string(c.Order()), outcome).Inc()
	metrics.RecommendationResultSize.Observe(float64(len(out)))
}

// Get returns one restaurant by ID.
func (s *Service) Get(id int) (restaurant.Restaurant, error) {
	r, ok := s.ds.Get(id)
	if !ok {
		return restaurant.Restaurant{}, fmt.Errorf("restaurant %d: %w", id, domain.ErrNotFound)
	}
	return r, nil
}

// SimilarTo returns the k nearest restaurants to id, the restaurant itself included.
func (s *Service) SimilarTo(id, k int) ([]Similar, error) {
	if s.idx == nil {
		return nil, domain.ErrIndexUnavailable
	}
	hits, err := s.idx.Neighbors(id, k)
	if err != nil {
		return nil, fmt.Errorf("neighbors: %w", err)
	}
	out := make([]Similar, 0, len(hits))
	for _, h := range hits {
		r, ok := s.ds.Get(h.Index)
		if !ok {
			continue
		}
		out = append(out, Similar{Restaurant: r, Distance: h.Distance})
	}
	return out, nil
}

// Categories returns the selectable categories.
func (s *Service) Categories() []string { return s.ds.Categories() }

// PriceLevels returns the selectable price levels.
func (s *Service) PriceLevels() []string { return s.ds.PriceLevels() }

// Stats reports catalog size and index availability.
func (s *Service) Stats() Stats {
	return Stats{Records: len(s.ds.Records), Skipped: s.ds.Skipped, IndexReady: s.idx != nil}
}
