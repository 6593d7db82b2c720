package reccache

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dinerec/internal/db"
)

// BreakerConfig controls when the cache stops calling a failing store.
type BreakerConfig struct {
	// Failures is the number of consecutive store errors that open the breaker.
	Failures uint32
	// Timeout is how long the breaker stays open before a probe request.
	Timeout time.Duration
}

// Compile-time check: breakerStore implements Store.
var _ Store = (*breakerStore)(nil)

// breakerStore guards a store with a circuit breaker. A missing key is a
// successful call; while the breaker is open every call fails fast.
type breakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[[]byte]
}

// WithBreaker wraps s so that an unreachable store costs one fast failure
// per request instead of a network timeout.
func WithBreaker(s Store, cfg BreakerConfig, logger *zap.Logger) Store {
	settings := gobreaker.Settings{
		Name:        "reccache",
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, db.ErrKeyNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Cache circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &breakerStore{next: s, cb: gobreaker.NewCircuitBreaker[[]byte](settings)}
}

func (b *breakerStore) Get(ctx context.Context, key string) ([]byte, error) {
	return b.cb.Execute(func() ([]byte, error) {
		return b.next.Get(ctx, key)
	})
}

func (b *breakerStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.next.SetWithTTL(ctx, key, value, ttl)
	})
	return err
}
