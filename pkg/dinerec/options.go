package dinerec

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	path            string
	seed            uint64
	useSourceRating bool

	maxFeatures   int
	keepStopWords bool

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithDataset sets the restaurant table path (.csv or .parquet). Required.
func WithDataset(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.path = path
	})
}

// WithSeed sets the rating generator seed. Default: 42.
func WithSeed(seed uint64) Option {
	return optionFunc(func(c *clientConfig) {
		c.seed = seed
	})
}

// WithSourceRating reads ratings from the table's rating column
// instead of generating them.
func WithSourceRating() Option {
	return optionFunc(func(c *clientConfig) {
		c.useSourceRating = true
	})
}

// WithMaxFeatures caps the TF-IDF vocabulary. Default: 5000.
func WithMaxFeatures(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxFeatures = n
	})
}

// WithStopWords keeps English stop words in the vocabulary.
func WithStopWords() Option {
	return optionFunc(func(c *clientConfig) {
		c.keepStopWords = true
	})
}

// WithCache enables the Valkey/Redis result cache.
func WithCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging for client operations.
// Default: no-op logger.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
