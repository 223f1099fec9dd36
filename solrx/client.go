package solrx

import "context"

// CollectionManager manages the collections and aliases of a SolrCloud cluster through the
// Collections API. It holds no state besides the transport, so it is safe for concurrent use;
// sequences of calls are not atomic against other writers of the cluster.
type CollectionManager interface {
	// Status returns a fresh snapshot of the cluster. When a name is given the snapshot is scoped to
	// that collection, and a collection that does not exist yields an empty snapshot.
	Status(ctx context.Context, name ...string) (*ClusterStatus, error)

	ClientCollections
	ClientAliases
}
