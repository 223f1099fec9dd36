// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package configx

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinia/solrx/errorx"
)

var testSchema = []byte(`{
  "$id": "https://example.com/test.schema.json",
  "type": "object",
  "properties": {
    "endpoint": {
      "type": "object",
      "properties": {
        "host": {"type": "string", "minLength": 1, "default": "localhost"},
        "port": {"type": "integer", "minimum": 1, "maximum": 65535, "default": 8983},
        "base_path": {"type": "string", "default": "solr"}
      }
    },
    "timeout": {"type": "string", "default": "60s"},
    "skip_tls_verify": {"type": "boolean", "default": false}
  }
}`)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("should load schema defaults", func(t *testing.T) {
		p, err := New(ctx, testSchema, DisableEnvLoading())
		require.NoError(t, err)

		assert.Equal(t, "localhost", p.String("endpoint.host"))
		assert.Equal(t, 8983, p.Int("endpoint.port"))
		assert.Equal(t, "solr", p.String("endpoint.base_path"))
		assert.False(t, p.Bool("skip_tls_verify"))
	})

	t.Run("should layer files over defaults", func(t *testing.T) {
		yamlFile := writeFile(t, "config.yaml", "endpoint:\n  host: solr-1\n")
		tomlFile := writeFile(t, "config.toml", "[endpoint]\nport = 7574\n")
		jsonFile := writeFile(t, "config.json", `{"endpoint": {"base_path": "search"}}`)

		p, err := New(ctx, testSchema, DisableEnvLoading(), WithConfigFiles(yamlFile, tomlFile, jsonFile))
		require.NoError(t, err)

		assert.Equal(t, "solr-1", p.String("endpoint.host"))
		assert.Equal(t, 7574, p.Int("endpoint.port"))
		assert.Equal(t, "search", p.String("endpoint.base_path"))
	})

	t.Run("should read prefixed environment variables", func(t *testing.T) {
		t.Setenv("TESTX_ENDPOINT_BASE_PATH", "api/solr")
		t.Setenv("TESTX_ENDPOINT_PORT", "9000")
		t.Setenv("TESTX_SKIP_TLS_VERIFY", "true")
		t.Setenv("TESTX_UNKNOWN", "ignored")

		p, err := New(ctx, testSchema, WithEnvPrefix("TESTX_"))
		require.NoError(t, err)

		assert.Equal(t, "api/solr", p.String("endpoint.base_path"))
		assert.Equal(t, 9000, p.Int("endpoint.port"))
		assert.True(t, p.Bool("skip_tls_verify"))
		assert.False(t, p.Exists("unknown"))
	})

	t.Run("should let changed flags win over files", func(t *testing.T) {
		yamlFile := writeFile(t, "config.yml", "endpoint:\n  host: from-file\n  port: 1234\n")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("endpoint.host", "", "")
		flags.Int("endpoint.port", 0, "")
		require.NoError(t, flags.Parse([]string{"--endpoint.host", "from-flag"}))

		p, err := New(ctx, testSchema, DisableEnvLoading(), WithConfigFiles(yamlFile), WithFlags(flags))
		require.NoError(t, err)

		assert.Equal(t, "from-flag", p.String("endpoint.host"))
		assert.Equal(t, 1234, p.Int("endpoint.port"))
	})

	t.Run("should coerce typed flags to the schema type", func(t *testing.T) {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.Duration("timeout", time.Minute, "")
		flags.Bool("skip_tls_verify", false, "")
		require.NoError(t, flags.Parse([]string{"--timeout", "90s", "--skip_tls_verify"}))

		p, err := New(ctx, testSchema, DisableEnvLoading(), WithFlags(flags))
		require.NoError(t, err)

		assert.Equal(t, "1m30s", p.Get("timeout"))
		assert.True(t, p.Bool("skip_tls_verify"))
	})

	t.Run("should let forced values win over everything", func(t *testing.T) {
		p, err := New(ctx, testSchema,
			DisableEnvLoading(),
			WithBaseValues(map[string]interface{}{"endpoint.host": "base"}),
			WithValue("endpoint.port", 1),
			WithValues(map[string]interface{}{"endpoint.base_path": "forced"}),
		)
		require.NoError(t, err)

		assert.Equal(t, "base", p.String("endpoint.host"))
		assert.Equal(t, 1, p.Int("endpoint.port"))
		assert.Equal(t, "forced", p.String("endpoint.base_path"))
		assert.Equal(t, "forced", p.Source()["endpoint.base_path"])
	})

	t.Run("should reject configuration violating the schema", func(t *testing.T) {
		_, err := New(ctx, testSchema, DisableEnvLoading(), WithValue("endpoint.port", 70000))
		require.Error(t, err)
		assert.True(t, errorx.IsInvalidArgumentError(err))
	})

	t.Run("should report a broken schema as an internal error", func(t *testing.T) {
		_, err := New(ctx, []byte(`{"type": `), DisableEnvLoading())
		require.Error(t, err)
		assert.True(t, errorx.IsInternalError(err))
	})

	t.Run("should skip validation when asked", func(t *testing.T) {
		p, err := New(ctx, testSchema, DisableEnvLoading(), SkipValidation(), WithValue("endpoint.port", 70000))
		require.NoError(t, err)
		assert.Equal(t, 70000, p.Int("endpoint.port"))
	})

	t.Run("should reject unsupported file formats", func(t *testing.T) {
		iniFile := writeFile(t, "config.ini", "host=foo")

		_, err := New(ctx, testSchema, DisableEnvLoading(), WithConfigFiles(iniFile))
		require.Error(t, err)
		assert.True(t, errorx.IsInvalidArgumentError(err))
	})

	t.Run("should fail on missing files", func(t *testing.T) {
		_, err := New(ctx, testSchema, DisableEnvLoading(), WithConfigFiles(filepath.Join(t.TempDir(), "missing.yaml")))
		require.Error(t, err)
		assert.True(t, errorx.IsInvalidArgumentError(err))
	})
}

func TestSchemaLeaves(t *testing.T) {
	leaves := schemaLeaves(testSchema)

	paths := make([]string, 0, len(leaves))
	for _, l := range leaves {
		paths = append(paths, l.Path)
	}

	assert.Equal(t, []string{"endpoint.host", "endpoint.port", "endpoint.base_path", "timeout", "skip_tls_verify"}, paths)
	assert.Equal(t, "ENDPOINT_BASE_PATH", envKey("endpoint.base_path"))
}
