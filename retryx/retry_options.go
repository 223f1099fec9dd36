package retryx

import (
	"context"
	"time"
)

type retryOptions struct {
	ctx             context.Context
	retryCount      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	notify          func(err error, next time.Duration)
	retryableOnly   bool
}

type RetryOption func(*retryOptions)

// WithRetryCount bounds the number of attempts, the first one included. Non positive values keep the default,
// as do those of the other numeric options.
func WithRetryCount(count int) RetryOption {
	return func(ro *retryOptions) {
		if count > 0 {
			ro.retryCount = count
		}
	}
}

func WithInterval(interval time.Duration) RetryOption {
	return func(ro *retryOptions) {
		if interval > 0 {
			ro.initialInterval = interval
		}
	}
}

func WithMaxInterval(interval time.Duration) RetryOption {
	return func(ro *retryOptions) {
		if interval > 0 {
			ro.maxInterval = interval
		}
	}
}

func WithMaxElapsedTime(d time.Duration) RetryOption {
	return func(ro *retryOptions) {
		if d > 0 {
			ro.maxElapsedTime = d
		}
	}
}

// WithContext stops retrying once ctx is done.
func WithContext(ctx context.Context) RetryOption {
	return func(ro *retryOptions) {
		ro.ctx = ctx
	}
}

// WithNotify registers a callback invoked after each failed attempt that will be retried.
func WithNotify(notify func(err error, next time.Duration)) RetryOption {
	return func(ro *retryOptions) {
		ro.notify = notify
	}
}

// WithRetryableErrorsOnly stops at the first error not wrapped with errorx.NewRetryableError.
// Returned errors are unwrapped either way.
func WithRetryableErrorsOnly() RetryOption {
	return func(ro *retryOptions) {
		ro.retryableOnly = true
	}
}
