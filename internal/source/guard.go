package source

import (
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/octobees/movescout/internal/entity"
	"github.com/octobees/movescout/internal/logger"
)

const maxBackoff = 10 * time.Second

// GuardOptions bound the cost of a single query against a source.
type GuardOptions struct {
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
}

// Guard decorates a source with a per-call timeout and a bounded retry on
// transient failures. Every failure it returns is an *UnavailableError.
type Guard struct {
	inner Source
	opts  GuardOptions
	log   *zap.Logger
	sleep func(ctx context.Context, d time.Duration) error
}

// NewGuard wraps inner.
func NewGuard(inner Source, opts GuardOptions, log *zap.Logger) *Guard {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &Guard{
		inner: inner,
		opts:  opts,
		log:   logger.OrNop(log).With(zap.String("source", inner.Name())),
		sleep: sleepContext,
	}
}

func (g *Guard) Name() string { return g.inner.Name() }

func (g *Guard) OpenWeb() bool { return IsOpenWeb(g.inner) }

// Unwrap returns the decorated source.
func (g *Guard) Unwrap() Source { return g.inner }

func (g *Guard) Search(ctx context.Context, query string) ([]entity.RawListing, error) {
	var lastErr error
	for attempt := 0; attempt <= g.opts.MaxRetries; attempt++ {
		listings, err := g.attempt(ctx, query)
		if err == nil {
			return listings, nil
		}
		lastErr = err

		if attempt == g.opts.MaxRetries || !isTransient(err) || ctx.Err() != nil {
			break
		}

		delay := backoffDelay(g.opts.Backoff, attempt)
		g.log.Warn("source call failed, retrying",
			zap.String("query", query),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if err := g.sleep(ctx, delay); err != nil {
			lastErr = err
			break
		}
	}

	var unavailable *UnavailableError
	if errors.As(lastErr, &unavailable) {
		return nil, lastErr
	}
	return nil, &UnavailableError{Source: g.inner.Name(), Query: query, Err: lastErr}
}

func (g *Guard) attempt(ctx context.Context, query string) ([]entity.RawListing, error) {
	callCtx := ctx
	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}
	return g.inner.Search(callCtx, query)
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	var te *TransientError
	if errors.As(err, &te) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return false
}

func backoffDelay(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	d := base << attempt
	if d <= 0 || d > maxBackoff {
		d = maxBackoff
	}
	if half := d / 2; half > 0 {
		d = half + rand.N(half)
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
