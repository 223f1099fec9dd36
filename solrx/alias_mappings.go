package solrx

import (
	"github.com/tidwall/gjson"
)

// AliasMappings is the alias table of a cluster, in the order reported by the server.
type AliasMappings struct {
	names   []string
	targets map[string]string
}

func newAliasMappings() *AliasMappings {
	return &AliasMappings{targets: map[string]string{}}
}

// set points alias at collection. An alias that is already known keeps its position.
func (m *AliasMappings) set(alias, collection string) {
	if _, ok := m.targets[alias]; !ok {
		m.names = append(m.names, alias)
	}
	m.targets[alias] = collection
}

// Names returns the alias names in server order.
func (m *AliasMappings) Names() []string {
	if m == nil {
		return []string{}
	}
	return append(make([]string, 0, len(m.names)), m.names...)
}

// Collection returns the collection targeted by alias.
func (m *AliasMappings) Collection(alias string) (string, bool) {
	if m == nil {
		return "", false
	}
	c, ok := m.targets[alias]
	return c, ok
}

func (m *AliasMappings) Has(alias string) bool {
	_, ok := m.Collection(alias)
	return ok
}

// Map returns a copy of the table keyed by alias name.
func (m *AliasMappings) Map() map[string]string {
	out := make(map[string]string, m.Len())
	if m == nil {
		return out
	}
	for k, v := range m.targets {
		out[k] = v
	}
	return out
}

func (m *AliasMappings) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// decodeAliasMappings reads an "aliases" object. An absent, null or empty list value is an empty table.
func decodeAliasMappings(action ActionKind, v gjson.Result, body []byte) (*AliasMappings, error) {
	m := newAliasMappings()

	switch {
	case !v.Exists(), v.Type == gjson.Null:
		return m, nil
	case v.IsArray() && len(v.Array()) == 0:
		return m, nil
	case !v.IsObject():
		return nil, &DecodeError{Action: action, Reason: "aliases must be an object, got " + v.Raw, Body: body}
	}

	var err error
	v.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			err = &DecodeError{Action: action, Reason: "alias " + key.String() + " must target a collection name, got " + value.Raw, Body: body}
			return false
		}
		m.set(key.String(), value.String())
		return true
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}
