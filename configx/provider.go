// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package configx

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"

	"github.com/clinia/solrx/errorx"
	"github.com/clinia/solrx/logrusx"
	"github.com/ory/jsonschema/v3"
)

const Delimiter = "."

type tuple struct {
	Key   string
	Value interface{}
}

// Provider merges configuration coming from schema defaults, files, environment variables and flags.
// Later sources win: defaults < base values < files < env < flags < forced values.
type Provider struct {
	*koanf.Koanf

	schema []byte
	leaves []schemaLeaf

	files             []string
	flags             *pflag.FlagSet
	envPrefix         string
	disableEnvLoading bool
	skipValidation    bool
	forcedValues      []tuple
	baseValues        []tuple

	logger *logrusx.Logger
}

// New creates a configuration provider validated against the given JSON schema.
func New(ctx context.Context, schema []byte, modifiers ...OptionModifier) (*Provider, error) {
	p := &Provider{
		schema: schema,
		leaves: schemaLeaves(schema),
		logger: logrusx.NewNoop(),
	}

	for _, m := range modifiers {
		m(p)
	}

	k, err := p.newKoanf()
	if err != nil {
		return nil, err
	}
	p.Koanf = k

	if !p.skipValidation {
		if err := p.validate(ctx); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *Provider) newKoanf() (*koanf.Koanf, error) {
	k := koanf.New(Delimiter)

	if err := k.Load(confmap.Provider(schemaDefaults(p.leaves), Delimiter), nil); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Load(confmap.Provider(tuplesToMap(p.baseValues), Delimiter), nil); err != nil {
		return nil, errors.WithStack(err)
	}

	for _, f := range p.files {
		parser, err := parserFor(f)
		if err != nil {
			return nil, err
		}

		p.logger.WithField("file", f).Debugf("loading configuration file")
		if err := k.Load(file.Provider(f), parser); err != nil {
			return nil, errorx.InvalidArgumentErrorf("unable to load configuration file %q: %s", f, err).WithOriginalError(err)
		}
	}

	if !p.disableEnvLoading {
		if err := k.Load(env.ProviderWithValue(p.envPrefix, Delimiter, p.envToPath), nil); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	if p.flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(p.flags, Delimiter, k, p.flagToPath), nil); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	if err := k.Load(confmap.Provider(tuplesToMap(p.forcedValues), Delimiter), nil); err != nil {
		return nil, errors.WithStack(err)
	}

	return k, nil
}

// envToPath maps PREFIX_ENDPOINT_BASE_PATH to endpoint.base_path using the schema, so keys containing
// underscores survive, and coerces the raw string to the type declared in the schema.
func (p *Provider) envToPath(key string, value string) (string, interface{}) {
	name := strings.TrimPrefix(key, p.envPrefix)
	for _, leaf := range p.leaves {
		if envKey(leaf.Path) == name {
			return leaf.Path, leaf.coerce(value)
		}
	}

	return "", nil
}

// flagToPath coerces typed flag values to the schema type, so a duration flag backs a string key.
func (p *Provider) flagToPath(f *pflag.Flag) (string, interface{}) {
	value := posflag.FlagVal(p.flags, f)
	for _, leaf := range p.leaves {
		if leaf.Path == f.Name {
			return f.Name, leaf.coerce(value)
		}
	}

	return f.Name, value
}

func (l schemaLeaf) coerce(value interface{}) interface{} {
	var (
		v   interface{}
		err error
	)

	switch l.Type {
	case "string":
		v, err = cast.ToStringE(value)
	case "integer":
		v, err = cast.ToInt64E(value)
	case "number":
		v, err = cast.ToFloat64E(value)
	case "boolean":
		v, err = cast.ToBoolE(value)
	default:
		return value
	}

	if err != nil {
		return value
	}
	return v
}

func (p *Provider) validate(ctx context.Context) error {
	s, err := compileSchema(ctx, p.schema)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(p.Koanf.Raw())
	if err != nil {
		return errors.WithStack(err)
	}

	if err := s.Validate(bytes.NewReader(raw)); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return errorx.InvalidArgumentErrorf("the configuration is invalid: %s", verr.Error()).WithOriginalError(err)
		}
		return errors.WithStack(err)
	}

	return nil
}

// Source returns a flattened copy of every loaded key.
func (p *Provider) Source() map[string]interface{} {
	return p.Koanf.All()
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return kjson.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, errorx.InvalidArgumentErrorf("unsupported configuration file format %q, expected one of .yaml, .yml, .json, .toml", filepath.Ext(path))
	}
}

func tuplesToMap(tuples []tuple) map[string]interface{} {
	m := make(map[string]interface{}, len(tuples))
	for _, t := range tuples {
		m[t.Key] = t.Value
	}
	return m
}
