// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package otelx

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/clinia/solrx/errorx"
	"github.com/clinia/solrx/logrusx"
)

type Tracer struct {
	provider   trace.TracerProvider
	shutdown   func(context.Context) error
	propagator propagation.TextMapPropagator
}

// New constructs the tracer provider described by c. An empty provider disables tracing.
func New(l *logrusx.Logger, c *TracerConfig) (*Tracer, error) {
	t := &Tracer{
		shutdown: func(context.Context) error { return nil },
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	}

	switch c.Provider {
	case "otlp":
		exp, err := newOTLPExporter(c)
		if err != nil {
			return nil, err
		}
		t.setSDKProvider(c, exp, sdktrace.ParentBased(sdktrace.TraceIDRatioBased(c.OTLP.SamplingRatio)))
		l.Infof("OTLP tracer configured! Sending spans to %s", c.OTLP.ServerURL)
	case "stdout":
		exp, err := newStdoutExporter(c)
		if err != nil {
			return nil, err
		}
		t.setSDKProvider(c, exp, sdktrace.AlwaysSample())
		l.Infof("Stdout tracer configured! Sending spans to stdout")
	case "":
		l.Debugf("No tracer configured - skipping tracing setup")
		t.provider = noop.NewTracerProvider()
	default:
		return nil, errorx.InvalidArgumentErrorf("unknown tracing provider %q, expected one of otlp, stdout", c.Provider)
	}

	return t, nil
}

func (t *Tracer) setSDKProvider(c *TracerConfig, exp sdktrace.SpanExporter, sampler sdktrace.Sampler) {
	atts := append([]attribute.KeyValue{semconv.ServiceNameKey.String(c.ServiceName)}, c.ResourceAttributes...)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(semconv.SchemaURL, atts...)),
		sdktrace.WithSampler(sampler),
	)

	t.provider = tp
	t.shutdown = tp.Shutdown
}

// Provider returns the configured TracerProvider.
func (t *Tracer) Provider() trace.TracerProvider {
	return t.provider
}

// Shutdown flushes pending spans and stops the exporter.
func (t *Tracer) Shutdown(ctx context.Context) error {
	return t.shutdown(ctx)
}

func (t *Tracer) TextMapPropagator() propagation.TextMapPropagator {
	return t.propagator
}
