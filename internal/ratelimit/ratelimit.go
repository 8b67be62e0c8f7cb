// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ratelimit bounds outbound request rate per provider with token
// buckets, independent of caller concurrency. Admission is FIFO per
// provider; a caller whose wait would exceed the configured maximum fails
// with ErrAcquireTimeout instead of queueing forever.
// See docs/ARCHITECTURE.md § Rate Limiting.
package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/place-finder/internal/metrics"
	"github.com/pdiddy/place-finder/pkg/types"
)

// ErrAcquireTimeout marks an acquire that could not be admitted within the
// max wait. It is distinct from a provider-side 429.
var ErrAcquireTimeout = errors.New("rate limiter: acquire timed out")

// DefaultMaxWait bounds acquire blocking when no max wait is configured.
const DefaultMaxWait = 30 * time.Second

// Limiter holds one token bucket per configured provider. Buckets are
// created at construction and never mutated afterward, so lookups need no
// locking; the buckets themselves admit atomically.
type Limiter struct {
	buckets map[string]*rate.Limiter
	maxWait time.Duration
	log     zerolog.Logger
}

// New builds a limiter from provider configurations. Providers with no
// RequestsPerSecond get no bucket and are admitted unlimited with a
// warning, per the degraded-mode rule.
func New(providers []types.ProviderConfig, cfg types.RateLimitConfig, log zerolog.Logger) *Limiter {
	maxWait := cfg.MaxWait
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}

	buckets := make(map[string]*rate.Limiter)
	for _, p := range providers {
		if p.RequestsPerSecond <= 0 {
			continue
		}
		name := p.Name
		if name == "" {
			name = string(p.Kind)
		}
		burst := p.Burst
		if burst <= 0 {
			burst = 1
		}
		buckets[name] = rate.NewLimiter(rate.Limit(p.RequestsPerSecond), burst)
	}

	return &Limiter{buckets: buckets, maxWait: maxWait, log: log}
}

// Acquire blocks until the provider's bucket admits one request, in FIFO
// order across concurrent callers. It fails with ErrAcquireTimeout when the
// wait would exceed the max wait, and with the context error when the
// caller is cancelled first.
func (l *Limiter) Acquire(ctx context.Context, provider string) error {
	bucket, ok := l.buckets[provider]
	if !ok {
		metrics.RateLimitUnlimited.WithLabelValues(provider).Inc()
		l.log.Warn().Str("provider", provider).Msg("no rate limit bucket configured; admitting unlimited")
		return nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	if err := bucket.Wait(waitCtx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		metrics.RateLimitTimeouts.WithLabelValues(provider).Inc()
		return ErrAcquireTimeout
	}
	return nil
}
