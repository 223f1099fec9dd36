package solrx

import (
	"context"
)

func (c *client) Aliases(ctx context.Context) (names []string, err error) {
	ctx, span, _ := c.start(ctx, "Aliases")
	defer func() { endSpan(span, err) }()

	mappings, err := c.aliasMappings(ctx)
	if err != nil {
		return nil, err
	}

	return mappings.Names(), nil
}

func (c *client) AliasMappings(ctx context.Context) (mappings *AliasMappings, err error) {
	ctx, span, _ := c.start(ctx, "AliasMappings")
	defer func() { endSpan(span, err) }()

	return c.aliasMappings(ctx)
}

func (c *client) aliasMappings(ctx context.Context) (*AliasMappings, error) {
	resp, err := c.transport.Raw(ctx, NewListAliasesAction().Path())
	if err != nil {
		return nil, err
	}

	return decodeAliasMappings(resp.Action, resp.Get("aliases"), resp.Body())
}

func (c *client) AliasedCollection(ctx context.Context, alias string) (collection string, found bool, err error) {
	ctx, span, _ := c.start(ctx, "AliasedCollection", AttributeKeyAlias.String(alias))
	defer func() { endSpan(span, err) }()

	mappings, err := c.aliasMappings(ctx)
	if err != nil {
		return "", false, err
	}

	collection, found = mappings.Collection(alias)
	return collection, found, nil
}

func (c *client) HasAlias(ctx context.Context, alias string) (found bool, err error) {
	ctx, span, _ := c.start(ctx, "HasAlias", AttributeKeyAlias.String(alias))
	defer func() { endSpan(span, err) }()

	mappings, err := c.aliasMappings(ctx)
	if err != nil {
		return false, err
	}

	return mappings.Has(alias), nil
}

func (c *client) Alias(ctx context.Context, collection, alias string) (resp *Response, err error) {
	ctx, span, l := c.start(ctx, "Alias", AttributeKeyCollection.String(collection), AttributeKeyAlias.String(alias))
	defer func() { endSpan(span, err) }()

	l.Debugf("pointing alias %s at collection %s", alias, collection)
	return c.transport.Raw(ctx, NewCreateAliasAction(alias, collection).Path())
}

func (c *client) DeleteAlias(ctx context.Context, alias string) (resp *Response, err error) {
	ctx, span, l := c.start(ctx, "DeleteAlias", AttributeKeyAlias.String(alias))
	defer func() { endSpan(span, err) }()

	l.Debugf("deleting alias %s", alias)
	return c.transport.Raw(ctx, NewDeleteAliasAction(alias).Path())
}
