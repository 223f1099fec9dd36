// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package configx

import (
	"github.com/spf13/pflag"

	"github.com/clinia/solrx/logrusx"
)

type OptionModifier func(p *Provider)

// WithConfigFiles loads the files in order, later files overriding earlier ones.
// The format is picked from the extension.
func WithConfigFiles(files ...string) OptionModifier {
	return func(p *Provider) {
		p.files = append(p.files, files...)
	}
}

// WithFlags loads the flags that were changed. Unchanged flags only fill keys nothing else set.
func WithFlags(flags *pflag.FlagSet) OptionModifier {
	return func(p *Provider) {
		p.flags = flags
	}
}

func WithLogger(l *logrusx.Logger) OptionModifier {
	return func(p *Provider) {
		p.logger = l
	}
}

// WithEnvPrefix sets the prefix of the environment variables read by the provider, e.g. "SOLRX_".
func WithEnvPrefix(prefix string) OptionModifier {
	return func(p *Provider) {
		p.envPrefix = prefix
	}
}

func DisableEnvLoading() OptionModifier {
	return func(p *Provider) {
		p.disableEnvLoading = true
	}
}

func SkipValidation() OptionModifier {
	return func(p *Provider) {
		p.skipValidation = true
	}
}

// WithValue forces key to value, whatever the other sources say.
func WithValue(key string, value interface{}) OptionModifier {
	return WithValues(map[string]interface{}{key: value})
}

func WithValues(values map[string]interface{}) OptionModifier {
	return func(p *Provider) {
		p.forcedValues = append(p.forcedValues, toTuples(values)...)
	}
}

// WithBaseValues sets values right above the schema defaults, below every other source.
func WithBaseValues(values map[string]interface{}) OptionModifier {
	return func(p *Provider) {
		p.baseValues = append(p.baseValues, toTuples(values)...)
	}
}

func toTuples(values map[string]interface{}) []tuple {
	tuples := make([]tuple, 0, len(values))
	for key, value := range values {
		tuples = append(tuples, tuple{Key: key, Value: value})
	}
	return tuples
}
