package solrx

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/clinia/solrx/errorx"
	"github.com/clinia/solrx/logrusx"
)

const (
	instrumentationName = "github.com/clinia/solrx"
	spanPrefix          = "solrx.CollectionManager."
)

type client struct {
	transport Transport
	l         *logrusx.Logger
	tracer    trace.Tracer
}

type ClientOption func(*client)

func WithLogger(l *logrusx.Logger) ClientOption {
	return func(c *client) {
		c.l = l
	}
}

// WithTracerProvider traces every operation with a tracer of tp.
func WithTracerProvider(tp trace.TracerProvider) ClientOption {
	return func(c *client) {
		c.tracer = tp.Tracer(instrumentationName)
	}
}

// NewCollectionManager creates a CollectionManager issuing its requests through transport.
// The transport is shared: closing it is up to the caller.
func NewCollectionManager(transport Transport, opts ...ClientOption) (CollectionManager, error) {
	if transport == nil {
		return nil, errorx.InvalidArgumentErrorf("a transport is required")
	}

	c := &client{
		transport: transport,
		l:         logrusx.NewNoop(),
		tracer:    noop.NewTracerProvider().Tracer(instrumentationName),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *client) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span, *logrusx.Logger) {
	ctx, span := c.tracer.Start(ctx, spanPrefix+op, trace.WithAttributes(attrs...))
	return ctx, span, c.l.WithContext(ctx).WithAttributes(attrs...)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (c *client) Status(ctx context.Context, name ...string) (status *ClusterStatus, err error) {
	var attrs []attribute.KeyValue
	if len(name) > 0 && name[0] != "" {
		attrs = append(attrs, AttributeKeyCollection.String(name[0]))
	}

	ctx, span, _ := c.start(ctx, "Status", attrs...)
	defer func() { endSpan(span, err) }()

	return c.status(ctx, name...)
}

func (c *client) status(ctx context.Context, name ...string) (*ClusterStatus, error) {
	scoped := len(name) > 0 && name[0] != ""

	resp, err := c.transport.Collections(ctx, NewClusterStatusAction(name...))
	if err != nil {
		if scoped && IsNotFoundError(err) {
			return emptyClusterStatus(nil), nil
		}
		return nil, err
	}

	return decodeClusterStatus(resp)
}
