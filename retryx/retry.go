package retryx

import (
	"time"

	"github.com/cenkalti/backoff"

	"github.com/clinia/solrx/errorx"
)

const (
	DefaultInterval       = 500 * time.Millisecond
	DefaultMaxInterval    = 2 * time.Second
	DefaultMaxElapsedTime = 5 * time.Second
	DefaultMaxRetries     = 3
)

func newOptions(opts []RetryOption) *retryOptions {
	o := &retryOptions{
		initialInterval: DefaultInterval,
		maxInterval:     DefaultMaxInterval,
		maxElapsedTime:  DefaultMaxElapsedTime,
		retryCount:      DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ExponentialRetry calls fn until it succeeds, doubling the wait between attempts up to
// WithMaxInterval. It stops after WithRetryCount attempts or once WithMaxElapsedTime is spent,
// whichever comes first.
func ExponentialRetry(fn func() error, opts ...RetryOption) error {
	o := newOptions(opts)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.initialInterval
	b.MaxInterval = o.maxInterval
	b.MaxElapsedTime = o.maxElapsedTime
	b.Reset()

	return retry(fn, b, o)
}

func retry(fn func() error, b backoff.BackOff, o *retryOptions) error {
	if o.ctx != nil {
		b = backoff.WithContext(b, o.ctx)
	}

	attempts := 0
	op := func() error {
		err := fn()
		if err == nil {
			return nil
		}

		attempts++
		if attempts >= o.retryCount {
			return backoff.Permanent(err)
		}
		if _, ok := errorx.IsRetryableError(err); o.retryableOnly && !ok {
			return backoff.Permanent(err)
		}
		return err
	}

	var err error
	if o.notify != nil {
		err = backoff.RetryNotify(op, b, o.notify)
	} else {
		err = backoff.Retry(op, b)
	}

	if re, ok := errorx.IsRetryableError(err); ok {
		return re.Unwrap()
	}
	return err
}
