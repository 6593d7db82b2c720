package dinerec

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dinerec/internal/dataset"
	dbValkey "github.com/kailas-cloud/dinerec/internal/db/valkey"
	"github.com/kailas-cloud/dinerec/internal/domain"
	"github.com/kailas-cloud/dinerec/internal/domain/criteria"
	"github.com/kailas-cloud/dinerec/internal/domain/display"
	"github.com/kailas-cloud/dinerec/internal/domain/restaurant"
	"github.com/kailas-cloud/dinerec/internal/index"
	logpkg "github.com/kailas-cloud/dinerec/internal/logger"
	"github.com/kailas-cloud/dinerec/internal/repository/reccache"
	healthuc "github.com/kailas-cloud/dinerec/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/dinerec/internal/usecase/recommend"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheTTL         = 5 * time.Minute
	defaultBreakerFailures  = 5
	defaultBreakerTimeout   = 30 * time.Second
)

// Internal interfaces for substitution in tests.
type recommendUseCase interface {
	Recommend(ctx context.Context, c *criteria.Criteria) []restaurant.Restaurant
	SimilarTo(id, k int) ([]recommenduc.Similar, error)
	Categories() []string
	PriceLevels() []string
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the dinerec entry point. Safe for concurrent use.
type Client struct {
	rec    recommendUseCase
	health healthUseCase
	store  *dbValkey.Store
	logger *zap.Logger
	obs    *observer
}

// New loads the dataset, builds the similarity index and, when configured,
// connects the result cache. The context bounds the cache readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		seed:        dataset.DefaultSeed,
		maxFeatures: index.DefaultMaxFeatures,
		logger:      zap.NewNop(),
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	if cfg.path == "" {
		return nil, errors.New("dinerec: dataset path required (use WithDataset)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	ctx = logpkg.ContextWithLogger(ctx, cfg.logger)
	ds, err := dataset.Load(ctx, cfg.path, dataset.Options{
		Seed:            cfg.seed,
		UseSourceRating: cfg.useSourceRating,
	})
	if err != nil {
		return nil, fmt.Errorf("dinerec: %w", err)
	}

	idx, err := buildIndex(ds, cfg)
	if err != nil {
		return nil, err
	}

	var (
		cache recommenduc.Cache
		ping  healthuc.CachePinger
		store *dbValkey.Store
	)
	if len(cfg.cacheAddrs) > 0 {
		store, err = connectCache(ctx, cfg)
		if err != nil {
			return nil, err
		}
		ttl := cfg.cacheTTL
		if ttl <= 0 {
			ttl = defaultCacheTTL
		}
		guarded := reccache.WithBreaker(store, reccache.BreakerConfig{
			Failures: defaultBreakerFailures,
			Timeout:  defaultBreakerTimeout,
		}, cfg.logger)
		cache = reccache.New(guarded, cfg.indexConfig().Key(), ttl, cfg.logger)
		ping = store
	}

	rec := recommenduc.New(ds, idx, cache)
	return &Client{
		rec:    rec,
		health: healthuc.New(rec, ping),
		store:  store,
		logger: cfg.logger,
		obs:    obs,
	}, nil
}

func (c *clientConfig) indexConfig() index.Config {
	return index.Config{MaxFeatures: c.maxFeatures, KeepStopWords: c.keepStopWords}
}

// buildIndex returns a nil interface for an empty corpus; similarity
// queries then fail with ErrIndexUnavailable.
func buildIndex(ds *dataset.Dataset, cfg *clientConfig) (recommenduc.Index, error) {
	idx, err := index.Build(ds.Records, cfg.indexConfig())
	if errors.Is(err, domain.ErrEmptyCorpus) {
		cfg.logger.Warn("Dataset has no usable rows, similarity disabled", zap.String("path", cfg.path))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("dinerec: build index: %w", err)
	}
	return idx, nil
}

func connectCache(ctx context.Context, cfg *clientConfig) (*dbValkey.Store, error) {
	store, err := dbValkey.NewStore(dbValkey.Config{
		Addrs:    cfg.cacheAddrs,
		Password: cfg.cachePassword,
	})
	if err != nil {
		return nil, fmt.Errorf("dinerec: create cache store: %w", err)
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("dinerec: cache not ready: %w", err)
	}
	return store, nil
}

// Close releases the cache connection, if any.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Recommend returns restaurants matching q. An empty slice means no matches.
func (c *Client) Recommend(ctx context.Context, q Query) (res []Restaurant, err error) {
	start := time.Now()
	defer func() { c.obs.observe("recommend", start, err) }()

	crit, err := criteria.New(q.Category, q.PriceLevel, q.MinRating, q.Limit, criteria.Order(q.Order))
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}

	ctx = logpkg.ContextWithLogger(ctx, c.logger)
	found := c.rec.Recommend(ctx, &crit)
	res = make([]Restaurant, len(found))
	for i := range found {
		res[i] = restaurantFromDomain(&found[i])
	}
	return res, nil
}

// Similar returns the k restaurants closest to id, id itself included.
// k <= 0 means 6.
func (c *Client) Similar(_ context.Context, id, k int) (res []Neighbor, err error) {
	start := time.Now()
	defer func() { c.obs.observe("similar", start, err) }()

	hits, err := c.rec.SimilarTo(id, k)
	if err != nil {
		return nil, fmt.Errorf("similar: %w", err)
	}
	res = make([]Neighbor, len(hits))
	for i := range hits {
		res[i] = Neighbor{Restaurant: restaurantFromDomain(&hits[i].Restaurant), Distance: hits[i].Distance}
	}
	return res, nil
}

// Categories returns the distinct categories in first-seen order.
func (c *Client) Categories() []string { return c.rec.Categories() }

// PriceLevels returns the distinct price levels in first-seen order.
func (c *Client) PriceLevels() []string { return c.rec.PriceLevels() }

// Health checks the dataset, the index and the cache.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.health.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:  string(report.Status),
		Records: report.Records,
		Skipped: report.Skipped,
		Checks:  checks,
	}
}

func restaurantFromDomain(r *restaurant.Restaurant) Restaurant {
	d := display.Format(r)
	return Restaurant{
		ID:         r.ID,
		Name:       r.Name,
		Category:   r.Category,
		PriceLevel: r.PriceLevel,
		Rating:     r.Rating,
		Address:    d.Address,
		Phone:      d.Phone,
		Link:       d.Link,
	}
}
