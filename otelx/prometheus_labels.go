package otelx

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
)

// NewPrometheusLabels converts attributes to prometheus labels, replacing the dots of the keys,
// which prometheus does not allow, with underscores. The same attributes can then be used for
// tracing and metrics.
func NewPrometheusLabels(kvs ...attribute.KeyValue) prometheus.Labels {
	labels := prometheus.Labels{}
	for _, kv := range kvs {
		k := strings.ReplaceAll(string(kv.Key), ".", "_")
		labels[k] = kv.Value.Emit()
	}

	return labels
}
