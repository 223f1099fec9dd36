// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package otelx

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/clinia/solrx/errorx"
)

func newOTLPExporter(c *TracerConfig) (sdktrace.SpanExporter, error) {
	ctx := context.Background()

	switch c.OTLP.Protocol {
	case "http", "":
		clientOpts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(c.OTLP.ServerURL),
		}
		if c.OTLP.Insecure {
			clientOpts = append(clientOpts, otlptracehttp.WithInsecure())
		}

		exp, err := otlptrace.New(ctx, otlptracehttp.NewClient(clientOpts...))
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return exp, nil
	case "grpc":
		clientOpts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(c.OTLP.ServerURL),
		}
		if c.OTLP.Insecure {
			clientOpts = append(clientOpts, otlptracegrpc.WithInsecure())
		}

		exp, err := otlptrace.New(ctx, otlptracegrpc.NewClient(clientOpts...))
		if err != nil {
			return nil, errors.Errorf("failed to create trace exporter: %s", err)
		}
		return exp, nil
	default:
		return nil, errorx.InvalidArgumentErrorf("unknown OTLP protocol %q, expected http or grpc", c.OTLP.Protocol)
	}
}
