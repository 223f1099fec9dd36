package solrx

import "context"

// ClientCollections provides access to the collections of a cluster.
type ClientCollections interface {
	// Collections returns every collection of the cluster, in server order.
	Collections(ctx context.Context) ([]Collection, error)

	// HasCollection returns true if a collection with given name exists.
	HasCollection(ctx context.Context, name string) (bool, error)

	// Create creates a collection. opts are resolved over the defaults by ResolveCreateOptions and
	// an unknown option fails before any request is sent. Creating a collection that already
	// exists returns a *RemoteError for which IsAlreadyExistsError is true.
	Create(ctx context.Context, name string, opts CreateOptions) (*Response, error)

	// EnsureCollection creates the collection with default options unless it exists.
	// A concurrent creator may win between the check and the creation, in which case the
	// already-exists error is returned to the caller.
	EnsureCollection(ctx context.Context, name string) error

	// Delete deletes a collection. Deleting an unknown collection returns a *RemoteError.
	Delete(ctx context.Context, name string) (*Response, error)
}
