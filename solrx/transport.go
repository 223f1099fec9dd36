package solrx

import (
	"context"
)

// Transport exchanges Collections API requests with a cluster. Implementations return a
// *TransportError when no response was received, a *DecodeError when the body is not a JSON object
// and a *RemoteError when the cluster reports a failure.
type Transport interface {
	// Collections issues an admin action.
	Collections(ctx context.Context, action *Action) (*Response, error)

	// Raw issues a GET request for a path relative to the Solr base path,
	// e.g. admin/collections?action=LISTALIASES.
	Raw(ctx context.Context, path string) (*Response, error)
}
