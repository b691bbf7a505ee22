package llm

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/agenthands/deepmemory/internal/config"
)

// Guarded wraps a Client with a per-call timeout and a circuit breaker, so a
// slow or failing model fails fast instead of stalling every request.
type Guarded struct {
	next    Client
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
}

func NewGuarded(next Client, cfg config.AnalysisConfig, log *zap.Logger) *Guarded {
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 3
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "llm",
		MaxRequests: 1,
		Timeout:     time.Duration(cfg.BreakerCooldown) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		// A caller giving up says nothing about the model's health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Guarded{
		next:    next,
		cb:      cb,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

func (g *Guarded) Generate(ctx context.Context, prompt string) (string, error) {
	return g.call(ctx, func(ctx context.Context) (string, error) {
		return g.next.Generate(ctx, prompt)
	})
}

func (g *Guarded) Describe(ctx context.Context, prompt string, image Image) (string, error) {
	return g.call(ctx, func(ctx context.Context) (string, error) {
		return g.next.Describe(ctx, prompt, image)
	})
}

// State reports the breaker state, mainly for health output.
func (g *Guarded) State() gobreaker.State {
	return g.cb.State()
}

func (g *Guarded) call(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	out, err := g.cb.Execute(func() (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}
