// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package otelx

import (
	"io"

	"go.opentelemetry.io/otel/attribute"
)

type OTLPConfig struct {
	// Protocol is "http" or "grpc".
	Protocol      string  `koanf:"protocol"`
	ServerURL     string  `koanf:"server_url"`
	Insecure      bool    `koanf:"insecure"`
	SamplingRatio float64 `koanf:"sampling_ratio"`
}

type StdoutConfig struct {
	Pretty bool      `koanf:"pretty"`
	Writer io.Writer `koanf:"-"`
}

type TracerConfig struct {
	ServiceName string       `koanf:"service_name"`
	Provider    string       `koanf:"provider"`
	OTLP        OTLPConfig   `koanf:"otlp"`
	Stdout      StdoutConfig `koanf:"stdout"`

	ResourceAttributes []attribute.KeyValue `koanf:"-"`
}
