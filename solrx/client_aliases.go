package solrx

import "context"

// ClientAliases provides access to the aliases of a cluster.
type ClientAliases interface {
	// Aliases returns the alias names in server order.
	Aliases(ctx context.Context) ([]string, error)

	// AliasMappings returns the alias table.
	AliasMappings(ctx context.Context) (*AliasMappings, error)

	// AliasedCollection returns the collection targeted by alias. The boolean is false when the
	// alias does not exist.
	AliasedCollection(ctx context.Context, alias string) (string, bool, error)

	HasAlias(ctx context.Context, alias string) (bool, error)

	// Alias points alias at collection, repointing it if it already exists.
	Alias(ctx context.Context, collection, alias string) (*Response, error)

	// DeleteAlias deletes an alias. Deleting an alias that does not exist succeeds.
	DeleteAlias(ctx context.Context, alias string) (*Response, error)
}
