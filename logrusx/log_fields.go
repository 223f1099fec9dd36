package logrusx

import (
	"strings"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var fieldKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// NewLogFields turns otel attributes into log fields. Keys are normalized the same way
// metric labels are, so "solr.action" is logged as "solr_action".
func NewLogFields(kvs ...attribute.KeyValue) logrus.Fields {
	f := make(logrus.Fields, len(kvs))
	for _, kv := range kvs {
		if !kv.Valid() {
			continue
		}
		f[fieldKeyReplacer.Replace(string(kv.Key))] = kv.Value.AsInterface()
	}
	return f
}
