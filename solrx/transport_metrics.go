package solrx

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/clinia/solrx/otelx"
)

const (
	outcomeSuccess        = "success"
	outcomeRemoteError    = "remote_error"
	outcomeDecodeError    = "decode_error"
	outcomeTransportError = "transport_error"
)

type transportMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newTransportMetrics(reg prometheus.Registerer) (*transportMetrics, error) {
	if reg == nil {
		return nil, nil
	}

	m := &transportMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solrx_admin_requests_total",
			Help: "The total number of Solr admin requests",
		}, []string{"solr_action", "solr_outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "solrx_admin_request_duration_seconds",
			Help:    "The latency of Solr admin requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"solr_action"}),
	}

	requests, err := register(reg, m.requests)
	if err != nil {
		return nil, err
	}
	m.requests = requests

	duration, err := register(reg, m.duration)
	if err != nil {
		return nil, err
	}
	m.duration = duration

	return m, nil
}

// register returns the collector already registered under the same descriptor, if any, so several
// transports can share one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, errors.WithStack(err)
	}
	return c, nil
}

func (m *transportMetrics) observe(action ActionKind, outcome string, d time.Duration) {
	if m == nil {
		return
	}

	m.requests.With(otelx.NewPrometheusLabels(
		AttributeKeyAction.String(action.String()),
		AttributeKeyOutcome.String(outcome),
	)).Inc()
	m.duration.With(otelx.NewPrometheusLabels(
		AttributeKeyAction.String(action.String()),
	)).Observe(d.Seconds())
}

func outcomeOf(err error) string {
	if err == nil {
		return outcomeSuccess
	}
	if _, ok := IsRemoteError(err); ok {
		return outcomeRemoteError
	}
	if _, ok := IsDecodeError(err); ok {
		return outcomeDecodeError
	}
	return outcomeTransportError
}
