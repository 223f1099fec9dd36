package solrx

import (
	"context"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"

	"github.com/clinia/solrx/logrusx"
)

func (c *client) Collections(ctx context.Context) (collections []Collection, err error) {
	ctx, span, _ := c.start(ctx, "Collections")
	defer func() { endSpan(span, err) }()

	status, err := c.status(ctx)
	if err != nil {
		return nil, err
	}

	return status.Collections()
}

func (c *client) HasCollection(ctx context.Context, name string) (exists bool, err error) {
	ctx, span, _ := c.start(ctx, "HasCollection", AttributeKeyCollection.String(name))
	defer func() { endSpan(span, err) }()

	return c.hasCollection(ctx, name)
}

func (c *client) hasCollection(ctx context.Context, name string) (bool, error) {
	status, err := c.status(ctx)
	if err != nil {
		return false, err
	}

	collections, err := status.Collections()
	if err != nil {
		return false, err
	}

	return lo.ContainsBy(collections, func(col Collection) bool {
		return col.Name == name
	}), nil
}

func (c *client) Create(ctx context.Context, name string, opts CreateOptions) (resp *Response, err error) {
	ctx, span, l := c.start(ctx, "Create", AttributeKeyCollection.String(name))
	defer func() { endSpan(span, err) }()

	settings, err := ResolveCreateOptions(opts)
	if err != nil {
		return nil, err
	}

	return c.create(ctx, l, name, settings)
}

func (c *client) create(ctx context.Context, l *logrusx.Logger, name string, settings CreateSettings) (*Response, error) {
	l.Debugf("creating collection %s with %d shard(s) and %d/%d/%d nrt/tlog/pull replicas",
		name, settings.NumShards, settings.NrtReplicas, settings.TlogReplicas, settings.PullReplicas)

	return c.transport.Collections(ctx, NewCreateAction(name, settings))
}

func (c *client) EnsureCollection(ctx context.Context, name string) (err error) {
	ctx, span, l := c.start(ctx, "EnsureCollection", AttributeKeyCollection.String(name))
	defer func() { endSpan(span, err) }()

	exists, err := c.hasCollection(ctx, name)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.Bool("solr.collection.exists", exists))
	if exists {
		return nil
	}

	_, err = c.create(ctx, l, name, DefaultCreateSettings())
	return err
}

func (c *client) Delete(ctx context.Context, name string) (resp *Response, err error) {
	ctx, span, l := c.start(ctx, "Delete", AttributeKeyCollection.String(name))
	defer func() { endSpan(span, err) }()

	l.Debugf("deleting collection %s", name)
	return c.transport.Collections(ctx, NewDeleteAction(name))
}
