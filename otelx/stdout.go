package otelx

import (
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func newStdoutExporter(c *TracerConfig) (sdktrace.SpanExporter, error) {
	opts := []stdouttrace.Option{}

	if c.Stdout.Pretty {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	if c.Stdout.Writer != nil {
		opts = append(opts, stdouttrace.WithWriter(c.Stdout.Writer))
	}

	exp, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return exp, nil
}
