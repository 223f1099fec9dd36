package solrx

import (
	"context"
	"time"

	"github.com/clinia/solrx/errorx"
	"github.com/clinia/solrx/logrusx"
	"github.com/clinia/solrx/retryx"
)

const systemInfoPath = "admin/info/system"

// Pinger checks that a cluster answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemInfo is the part of admin/info/system the client cares about.
type SystemInfo struct {
	Mode        string
	SolrVersion string
}

// Ping asks a node for its system information.
func (t *HTTPTransport) Ping(ctx context.Context) error {
	_, err := t.SystemInfo(ctx)
	return err
}

func (t *HTTPTransport) SystemInfo(ctx context.Context) (*SystemInfo, error) {
	resp, err := t.Raw(ctx, systemInfoPath)
	if err != nil {
		return nil, err
	}

	return &SystemInfo{
		Mode:        resp.Get("mode").String(),
		SolrVersion: resp.Get("lucene.solr-spec-version").String(),
	}, nil
}

// WaitForCluster pings until the cluster answers, backing off exponentially. Only transport failures
// and server errors are retried; once the budget is spent they are reported as unavailable. It also
// gives up when ctx is done. Admin operations themselves are never retried.
func WaitForCluster(ctx context.Context, p Pinger, l *logrusx.Logger, opts ...retryx.RetryOption) error {
	if l == nil {
		l = logrusx.NewNoop()
	}

	opts = append([]retryx.RetryOption{
		retryx.WithRetryCount(10),
		retryx.WithMaxElapsedTime(time.Minute),
		retryx.WithNotify(func(err error, next time.Duration) {
			l.WithError(err).Infof("solr is not ready yet, retrying in %s", next)
		}),
	}, opts...)
	opts = append(opts, retryx.WithContext(ctx), retryx.WithRetryableErrorsOnly())

	err := retryx.ExponentialRetry(func() error {
		err := p.Ping(ctx)
		if isRetryablePing(err) {
			return errorx.NewRetryableError(err)
		}
		return err
	}, opts...)
	if isRetryablePing(err) {
		return errorx.UnavailableErrorf("solr did not become ready: %s", err).WithOriginalError(err)
	}
	return err
}

func isRetryablePing(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := IsTransportError(err); ok {
		return true
	}
	re, ok := IsRemoteError(err)
	return ok && (re.Kind == errorx.ErrorTypeUnavailable || re.Kind == errorx.ErrorTypeInternal)
}
