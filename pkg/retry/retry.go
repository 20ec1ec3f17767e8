// Package retry provides retry policies with exponential backoff and jitter
// for calls to backing services (PostgreSQL, Redis).
package retry

import (
	"context"
	"time"

	backoff "github.com/avast/retry-go/v4"
)

// Config describes a retry policy.
type Config struct {
	// MaxAttempts is the maximum number of attempts including the first one.
	MaxAttempts uint

	// InitialDelay is the delay before the first retry; it doubles on each attempt.
	InitialDelay time.Duration

	// MaxDelay caps the delay between attempts.
	MaxDelay time.Duration

	// MaxJitter is the upper bound of the random delay added to each wait.
	MaxJitter time.Duration

	// RetryIf reports whether err is worth another attempt. Nil retries everything
	// except errors wrapped with Permanent.
	RetryIf func(error) bool

	// OnRetry is called after every failed attempt, numbered from 1.
	OnRetry func(attempt uint, err error)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		MaxJitter:    50 * time.Millisecond,
	}
}

// Option is a functional option for configuring retries.
type Option func(*Config)

// WithMaxAttempts sets the maximum number of attempts.
func WithMaxAttempts(n uint) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxAttempts = n
		}
	}
}

// WithInitialDelay sets the delay before the first retry.
func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.InitialDelay = d
		}
	}
}

// WithMaxDelay caps the delay between attempts.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.MaxDelay = d
		}
	}
}

// WithRetryIf sets the retry predicate.
func WithRetryIf(fn func(error) bool) Option {
	return func(c *Config) { c.RetryIf = fn }
}

// WithOnRetry sets the callback invoked before each retry.
func WithOnRetry(fn func(attempt uint, err error)) Option {
	return func(c *Config) { c.OnRetry = fn }
}

// Permanent marks err as not retryable; Do returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Unrecoverable(err)
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	return err != nil && !backoff.IsRecoverable(err)
}

// Retrier executes operations according to a Config.
type Retrier struct {
	config Config
}

// New creates a Retrier from DefaultConfig and opts.
func New(opts ...Option) *Retrier {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Retrier{config: cfg}
}

// Config returns the effective policy.
func (r *Retrier) Config() Config {
	return r.config
}

func (r *Retrier) options(ctx context.Context) []backoff.Option {
	opts := []backoff.Option{
		backoff.Context(ctx),
		backoff.Attempts(r.config.MaxAttempts),
		backoff.Delay(r.config.InitialDelay),
		backoff.MaxDelay(r.config.MaxDelay),
		backoff.MaxJitter(r.config.MaxJitter),
		backoff.DelayType(backoff.CombineDelay(backoff.BackOffDelay, backoff.RandomDelay)),
		backoff.LastErrorOnly(true),
	}
	if retryIf := r.config.RetryIf; retryIf != nil {
		opts = append(opts, backoff.RetryIf(func(err error) bool {
			return backoff.IsRecoverable(err) && retryIf(err)
		}))
	}
	if r.config.OnRetry != nil {
		opts = append(opts, backoff.OnRetry(func(n uint, err error) {
			r.config.OnRetry(n+1, err)
		}))
	}
	return opts
}

// Do runs operation until it succeeds, returns a permanent error, runs out of
// attempts or ctx is done. The last error is returned.
func (r *Retrier) Do(ctx context.Context, operation func(ctx context.Context) error) error {
	return backoff.Do(func() error {
		return operation(ctx)
	}, r.options(ctx)...)
}

// Do runs operation with a Retrier built from opts.
func Do(ctx context.Context, operation func(ctx context.Context) error, opts ...Option) error {
	return New(opts...).Do(ctx, operation)
}

// DoWithData is Do for operations that return a value.
func DoWithData[T any](ctx context.Context, operation func(ctx context.Context) (T, error), opts ...Option) (T, error) {
	r := New(opts...)
	return backoff.DoWithData(func() (T, error) {
		return operation(ctx)
	}, r.options(ctx)...)
}

// ConnectRetrier is the policy for establishing connections at startup, when
// the database or cache container may still be coming up.
func ConnectRetrier(opts ...Option) *Retrier {
	base := []Option{
		WithMaxAttempts(5),
		WithInitialDelay(500 * time.Millisecond),
		WithMaxDelay(5 * time.Second),
	}
	return New(append(base, opts...)...)
}
