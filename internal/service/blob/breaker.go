package blob

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	logger "github.com/finbox-in/imagegen/internal/pkg/logger"
)

type BreakerConfig struct {
	Name string

	// MaxRequests is the number of trial uploads allowed while half-open.
	MaxRequests uint32

	// Interval clears the counts while closed; Timeout is how long the
	// breaker stays open.
	Interval time.Duration
	Timeout  time.Duration

	// The breaker trips once MinRequests have been seen and the failure
	// ratio reaches FailureThreshold.
	FailureThreshold float64
	MinRequests      uint32
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "blob-upload",
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// Breaker fails uploads fast with gobreaker.ErrOpenState while the backing
// store keeps failing.
type Breaker struct {
	store   Store
	breaker *gobreaker.CircuitBreaker
}

func NewBreaker(store Store, cfg BreakerConfig, l *logger.Logger) *Breaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			l.WithX("circuit", name).Warnf("Circuit breaker state changed: %s -> %s", from, to)
		},
		// A cancelled request says nothing about the store's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &Breaker{
		store:   store,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (b *Breaker) Upload(ctx context.Context, name string, data []byte) (string, error) {
	res, err := b.breaker.Execute(func() (interface{}, error) {
		return b.store.Upload(ctx, name, data)
	})
	if err != nil {
		return "", err
	}
	return res.(string), nil
}

func (b *Breaker) State() gobreaker.State {
	return b.breaker.State()
}
