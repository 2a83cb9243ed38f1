// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for the metadata fetchers.
package httputil

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseDelay is the first backoff on HTTP 429.
const DefaultBaseDelay = 2 * time.Second

const defaultMaxRetries = 5

// Retrier sends requests and retries those answered with HTTP 429 (Too Many
// Requests). The wait honors a Retry-After header given in seconds and
// otherwise doubles from BaseDelay on each attempt.
type Retrier struct {
	Client *http.Client

	// MaxRetries caps the retries after the first attempt (0 = 5).
	MaxRetries int

	// BaseDelay is the first backoff (0 = DefaultBaseDelay).
	BaseDelay time.Duration

	Logger zerolog.Logger
}

// Do executes req under ctx. If ctx ends during a backoff wait Do returns
// ctx.Err(). After exhausting retries the last 429 response is returned so
// the caller can inspect it.
func (r *Retrier) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	maxRetries := r.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	base := r.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	backoff := base
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		wait := backoff
		if d, ok := retryAfter(resp.Header.Get("Retry-After")); ok {
			wait = d
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		r.Logger.Warn().
			Str("url", req.URL.Redacted()).
			Dur("wait", wait).
			Int("attempt", attempt+1).
			Int("max_retries", maxRetries).
			Msg("rate limited, retrying")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
}

// retryAfter parses a Retry-After header in delta-seconds form.
func retryAfter(v string) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}
