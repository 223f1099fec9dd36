package solrx

import "go.opentelemetry.io/otel/attribute"

const (
	AttributeKeyAction     = attribute.Key("solr.action")
	AttributeKeyCollection = attribute.Key("solr.collection")
	AttributeKeyAlias      = attribute.Key("solr.alias")
	AttributeKeyOutcome    = attribute.Key("solr.outcome")
)
