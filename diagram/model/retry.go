package model

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// RateLimitError marks a provider 429. It is always retried, with a
// delay that grows with the attempt number.
type RateLimitError struct {
	Provider string
	Err      error
}

func (e *RateLimitError) Error() string {
	return e.Provider + ": rate limited: " + e.Err.Error()
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// StatusError carries the HTTP status of a failed provider call. 5xx and
// 408 are retried; other codes are permanent.
type StatusError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// HTTPError classifies an SDK error by its status code. 429 becomes a
// RateLimitError, any other non-zero code a StatusError.
func HTTPError(provider string, statusCode int, err error) error {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return &RateLimitError{Provider: provider, Err: err}
	case statusCode != 0:
		return &StatusError{Provider: provider, StatusCode: statusCode, Err: err}
	}
	return err
}

// transientStatus matches a gateway status as a whole token, so "5000" in
// a message does not count.
var transientStatus = regexp.MustCompile(`\b(500|502|503|504)\b`)

// Retrier retries a call on transient errors.
type Retrier struct {
	// Provider names the backend in the final error.
	Provider string

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// Delay is the base wait between attempts.
	Delay time.Duration
}

// DefaultRetrier returns a Retrier with 3 retries and a 1s base delay.
func DefaultRetrier(provider string) Retrier {
	return Retrier{Provider: provider, MaxRetries: 3, Delay: time.Second}
}

// Do calls fn until it succeeds, returns a permanent error, or retries run
// out. Waiting between attempts stops early when ctx is done.
func (r Retrier) Do(ctx context.Context, fn func(context.Context) (ChatOut, error)) (ChatOut, error) {
	if err := ctx.Err(); err != nil {
		return ChatOut{}, err
	}

	var lastErr error
	for attempt := 0; attempt <= r.MaxRetries; attempt++ {
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !IsTransient(err) {
			return ChatOut{}, err
		}
		if attempt >= r.MaxRetries {
			break
		}

		delay := r.Delay
		var rl *RateLimitError
		if errors.As(err, &rl) {
			delay = r.Delay * time.Duration(attempt+1)
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ChatOut{}, ctx.Err()
		}
	}

	return ChatOut{}, fmt.Errorf("%s API failed after %d retries: %w", r.Provider, r.MaxRetries, lastErr)
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var rl *RateLimitError
	if errors.As(err, &rl) {
		return true
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500 || se.StatusCode == http.StatusRequestTimeout
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"timeout", "network", "connection", "temporary"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return transientStatus.MatchString(msg)
}
