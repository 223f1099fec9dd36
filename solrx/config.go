package solrx

import (
	"context"
	_ "embed"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/clinia/solrx/configx"
	"github.com/clinia/solrx/httpx"
	"github.com/clinia/solrx/logrusx"
	"github.com/clinia/solrx/otelx"
)

//go:embed config.schema.json
var ConfigSchema []byte

const EnvPrefix = "SOLRX_"

type EndpointConfig struct {
	Scheme   string `koanf:"scheme"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	BasePath string `koanf:"base_path"`
}

type AuthConfig struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

type LogConfig struct {
	Level               string `koanf:"level"`
	Format              string `koanf:"format"`
	LeakSensitiveValues bool   `koanf:"leak_sensitive_values"`
}

type Config struct {
	Endpoint            EndpointConfig     `koanf:"endpoint"`
	Timeout             time.Duration      `koanf:"timeout"`
	SkipTLSVerify       bool               `koanf:"skip_tls_verify"`
	MaxIdleConnsPerHost int                `koanf:"max_idle_conns_per_host"`
	Auth                AuthConfig         `koanf:"auth"`
	Log                 LogConfig          `koanf:"log"`
	Tracing             otelx.TracerConfig `koanf:"tracing"`
}

// LoadConfig reads the configuration from the schema defaults, files, SOLRX_ prefixed environment
// variables and flags, in that order of precedence.
func LoadConfig(ctx context.Context, opts ...configx.OptionModifier) (*Config, error) {
	p, err := configx.New(ctx, ConfigSchema, append([]configx.OptionModifier{configx.WithEnvPrefix(EnvPrefix)}, opts...)...)
	if err != nil {
		return nil, err
	}

	var c Config
	if err := p.Unmarshal("", &c); err != nil {
		return nil, errors.WithStack(err)
	}

	return &c, nil
}

// RegisterFlags registers the flags read by LoadConfig.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("endpoint.scheme", "http", "Scheme of the Solr endpoint")
	flags.String("endpoint.host", "localhost", "Host of the Solr endpoint")
	flags.Int("endpoint.port", 8983, "Port of the Solr endpoint")
	flags.String("endpoint.base_path", "solr", "Base path of the Solr API")
	flags.Duration("timeout", 60*time.Second, "Timeout of a single request")
	flags.Bool("skip_tls_verify", false, "Skip the verification of the server certificate")
	flags.Int("max_idle_conns_per_host", 8, "Keep-alive connections kept to the Solr node")
	flags.String("log.level", "info", "Log level")
	flags.String("log.format", "text", "Log format, text or json")
	flags.String("tracing.provider", "", "Tracing provider, stdout or otlp")
}

func (c *Config) SolrEndpoint() Endpoint {
	return Endpoint{
		Scheme:   c.Endpoint.Scheme,
		Host:     c.Endpoint.Host,
		Port:     c.Endpoint.Port,
		BasePath: c.Endpoint.BasePath,
	}
}

// NewLogger creates the logger described by the log section.
func (c *Config) NewLogger(name, version string) *logrusx.Logger {
	opts := []logrusx.Option{
		logrusx.ForceLevel(logrusx.ParseLevel(c.Log.Level)),
		logrusx.ForceFormat(c.Log.Format),
	}
	if c.Log.LeakSensitiveValues {
		opts = append(opts, logrusx.LeakSensitive())
	}
	return logrusx.New(name, version, opts...)
}

// NewTransport creates an HTTPTransport for the configured endpoint.
func (c *Config) NewTransport(l *logrusx.Logger, opts ...TransportOption) (*HTTPTransport, error) {
	httpOpts := []httpx.Option{
		httpx.WithTimeout(c.Timeout),
		httpx.WithMaxIdleConnsPerHost(c.MaxIdleConnsPerHost),
	}
	if c.SkipTLSVerify {
		httpOpts = append(httpOpts, httpx.WithSkipTLSVerification())
	}

	base := []TransportOption{
		WithHTTPClient(httpx.NewClientWithOptions(httpOpts...)),
		WithTransportLogger(l),
	}
	if c.Auth.Username != "" {
		base = append(base, WithBasicAuth(c.Auth.Username, c.Auth.Password))
	}

	return NewHTTPTransport(c.SolrEndpoint(), append(base, opts...)...)
}
