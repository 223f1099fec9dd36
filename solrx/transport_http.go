package solrx

import (
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/propagation"

	"github.com/clinia/solrx/errorx"
	"github.com/clinia/solrx/httpx"
	"github.com/clinia/solrx/logrusx"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Endpoint locates the Solr HTTP API: {scheme}://{host}:{port}/{base path}.
type Endpoint struct {
	Scheme   string `validate:"required,oneof=http https"`
	Host     string `validate:"required,hostname_rfc1123|ip"`
	Port     int    `validate:"required,min=1,max=65535"`
	BasePath string
}

func DefaultEndpoint() Endpoint {
	return Endpoint{Scheme: "http", Host: "localhost", Port: 8983, BasePath: "solr"}
}

func (e Endpoint) Validate() error {
	if err := validate.Struct(e); err != nil {
		return errorx.InvalidArgumentErrorf("invalid solr endpoint: %s", err).WithOriginalError(err)
	}
	return nil
}

// URL returns the absolute URL of a path relative to the base path.
func (e Endpoint) URL(path string) string {
	p := strings.TrimLeft(path, "/")
	if base := strings.Trim(e.BasePath, "/"); base != "" {
		p = base + "/" + p
	}
	return fmt.Sprintf("%s://%s/%s", e.Scheme, net.JoinHostPort(e.Host, strconv.Itoa(e.Port)), p)
}

type transportOptions struct {
	client     *httpx.Client
	logger     *logrusx.Logger
	registerer prometheus.Registerer
	propagator propagation.TextMapPropagator
	headers    http.Header
}

type TransportOption func(*transportOptions)

// WithHTTPClient replaces the default httpx client.
func WithHTTPClient(c *httpx.Client) TransportOption {
	return func(o *transportOptions) {
		o.client = c
	}
}

func WithTransportLogger(l *logrusx.Logger) TransportOption {
	return func(o *transportOptions) {
		o.logger = l
	}
}

// WithRegisterer records request metrics on reg.
func WithRegisterer(reg prometheus.Registerer) TransportOption {
	return func(o *transportOptions) {
		o.registerer = reg
	}
}

// WithPropagator injects the trace context of each request into its headers, so Solr spans join the caller's trace.
func WithPropagator(p propagation.TextMapPropagator) TransportOption {
	return func(o *transportOptions) {
		o.propagator = p
	}
}

func WithBasicAuth(username, password string) TransportOption {
	return func(o *transportOptions) {
		o.headers.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(username+":"+password)))
	}
}

// HTTPTransport is a Transport over the Solr HTTP API.
type HTTPTransport struct {
	endpoint Endpoint
	client   *httpx.Client
	headers  http.Header
	l        *logrusx.Logger
	metrics  *transportMetrics

	propagator propagation.TextMapPropagator
}

var _ Transport = (*HTTPTransport)(nil)

func NewHTTPTransport(endpoint Endpoint, opts ...TransportOption) (*HTTPTransport, error) {
	if err := endpoint.Validate(); err != nil {
		return nil, err
	}

	o := &transportOptions{headers: http.Header{}}
	for _, opt := range opts {
		opt(o)
	}
	if o.client == nil {
		o.client = httpx.NewHTTPClient()
	}
	if o.logger == nil {
		o.logger = logrusx.NewNoop()
	}

	metrics, err := newTransportMetrics(o.registerer)
	if err != nil {
		return nil, err
	}

	o.headers.Set("Accept", "application/json")

	return &HTTPTransport{
		endpoint: endpoint,
		client:   o.client,
		headers:  o.headers,
		l:        o.logger,
		metrics:  metrics,

		propagator: o.propagator,
	}, nil
}

func (t *HTTPTransport) Endpoint() Endpoint {
	return t.endpoint
}

func (t *HTTPTransport) Collections(ctx context.Context, action *Action) (*Response, error) {
	if err := action.Validate(); err != nil {
		return nil, err
	}
	return t.do(ctx, action.Kind, action.Path())
}

func (t *HTTPTransport) Raw(ctx context.Context, path string) (*Response, error) {
	return t.do(ctx, actionKindFromPath(path), path)
}

// Close releases idle connections.
func (t *HTTPTransport) Close() {
	t.client.CloseIdleConnections()
}

func (t *HTTPTransport) do(ctx context.Context, kind ActionKind, path string) (*Response, error) {
	target := t.endpoint.URL(path)

	u, err := url.Parse(target)
	if err != nil {
		return nil, errorx.InvalidArgumentErrorf("invalid solr path %q: %s", path, err).WithOriginalError(err)
	}

	var query url.Values
	if u.Query().Get("wt") == "" {
		query = url.Values{"wt": {"json"}}
	}

	headers := t.headers
	if t.propagator != nil {
		headers = t.headers.Clone()
		t.propagator.Inject(ctx, propagation.HeaderCarrier(headers))
	}

	l := t.l.WithContext(ctx).
		WithAttributes(AttributeKeyAction.String(kind.String())).
		WithURL("url", u)

	start := time.Now()
	res, err := t.client.MakeHTTPRequest(ctx, &httpx.Request{
		Method:          http.MethodGet,
		URL:             target,
		Headers:         headers,
		QueryParameters: query,
	})
	if err != nil {
		err = &TransportError{Action: kind, URL: u.Redacted(), Err: err}
		t.metrics.observe(kind, outcomeOf(err), time.Since(start))
		l.WithError(err).Warnf("solr request failed")
		return nil, err
	}

	resp, err := NewResponse(kind, res.StatusCode, res.Body)
	t.metrics.observe(kind, outcomeOf(err), res.Duration)

	l = l.WithFields(map[string]interface{}{
		"status":   res.StatusCode,
		"duration": res.Duration.String(),
	})
	if err != nil {
		l.WithError(err).Warnf("solr request was rejected")
		return nil, err
	}

	l.Debugf("solr request completed")
	return resp, nil
}
