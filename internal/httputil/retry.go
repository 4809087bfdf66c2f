// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"io"
	"net/http"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const defaultMaxAttempts = 3

// DoWithRetry executes an HTTP request and retries on HTTP 429 (Too Many
// Requests) with exponential backoff. The delay starts at RetryBaseDelay
// (2 s) and doubles after each rate-limited attempt: 2 s, 4 s, 8 s.
//
// When maxAttempts is 0 the default (3) is used. On each 429 the response
// body is drained and closed before sleeping; the backoff wait also runs
// after the final rate-limited attempt, matching the upstream quota window,
// and the last 429 response is then returned so the caller can inspect it.
// If the context is cancelled during a backoff wait the function returns
// ctx.Err(). Statuses other than 429 are returned immediately.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxAttempts int) (*http.Response, error) {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	var last *http.Response
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		last = resp

		// Drain and close the body before waiting out the quota window.
		if attempt < maxAttempts-1 {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		backoff := time.Duration(1<<attempt) * RetryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return last, nil
}
