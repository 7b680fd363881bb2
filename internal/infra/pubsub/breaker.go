package pubsub

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

var ErrCircuitOpen = errors.New("publisher circuit open")

type BreakerOptions struct {
	Name             string
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

var _ Publisher = (*BreakerPublisher)(nil)

// BreakerPublisher fails fast while the downstream publisher keeps failing, so
// callers are never held up by an unreachable cluster.
type BreakerPublisher struct {
	next    Publisher
	breaker *gobreaker.CircuitBreaker[struct{}]
}

func NewBreakerPublisher(next Publisher, opts BreakerOptions) *BreakerPublisher {
	threshold := opts.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	settings := gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: 1,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("publisher circuit state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &BreakerPublisher{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

func (p *BreakerPublisher) Publish(ctx context.Context, key Key, message Message) error {
	_, err := p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.next.Publish(ctx, key, message)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.Join(ErrCircuitOpen, err)
	}

	return err
}

// Close closes the wrapped publisher when it holds resources.
func (p *BreakerPublisher) Close() error {
	if closer, ok := p.next.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}
