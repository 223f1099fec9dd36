package solrx

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

type Replica struct {
	Name     string
	Core     string
	NodeName string
	BaseURL  string
	Type     string
	State    string
	Leader   bool
}

type Shard struct {
	Name     string
	Range    string
	State    string
	Health   string
	Replicas []Replica
}

type Router struct {
	Name  string
	Field string
}

// Collection is one collection as described by CLUSTERSTATUS.
type Collection struct {
	Name              string
	NumShards         int
	Router            Router
	ReplicationFactor int
	NrtReplicas       int
	TlogReplicas      int
	PullReplicas      int
	ConfigName        string
	Health            string
	Aliases           []string
	Shards            []Shard
	CreatedAt         time.Time
}

// collectionsShape tells how cluster.collections was reported.
type collectionsShape int

const (
	collectionsShapeObject collectionsShape = iota
	// collectionsShapeEmpty is a cluster without collections. Solr reports it as an empty list
	// or null instead of an empty object.
	collectionsShapeEmpty
	collectionsShapeMalformed
)

// ClusterStatus is a snapshot of the cluster taken by one CLUSTERSTATUS request.
type ClusterStatus struct {
	LiveNodes []string
	// Aliases as reported inside the cluster status.
	Aliases *AliasMappings
	Raw     *Response

	collections    []Collection
	shape          collectionsShape
	collectionsErr error
}

func emptyClusterStatus(raw *Response) *ClusterStatus {
	return &ClusterStatus{
		LiveNodes: []string{},
		Aliases:   newAliasMappings(),
		Raw:       raw,
		shape:     collectionsShapeEmpty,
	}
}

// Collections returns the collections in server order. It fails with a *DecodeError when the
// collections could not be decoded.
func (s *ClusterStatus) Collections() ([]Collection, error) {
	switch s.shape {
	case collectionsShapeEmpty:
		return []Collection{}, nil
	case collectionsShapeMalformed:
		return nil, s.collectionsErr
	default:
		return s.collections, nil
	}
}

func (s *ClusterStatus) Collection(name string) (*Collection, bool) {
	c, ok := lo.Find(s.collections, func(c Collection) bool {
		return c.Name == name
	})
	if !ok {
		return nil, false
	}
	return &c, true
}

func (s *ClusterStatus) CollectionExists(name string) bool {
	_, ok := s.Collection(name)
	return ok
}

func (s *ClusterStatus) CollectionNames() []string {
	return lo.Map(s.collections, func(c Collection, _ int) string {
		return c.Name
	})
}

// decodeClusterStatus reads a CLUSTERSTATUS response. A malformed collections value does not fail
// the decoding; it is reported by Collections.
func decodeClusterStatus(resp *Response) (*ClusterStatus, error) {
	cluster := resp.Get("cluster")
	if !cluster.IsObject() {
		return nil, &DecodeError{Action: resp.Action, Reason: "missing cluster object", Body: resp.Body()}
	}

	s := &ClusterStatus{Raw: resp, LiveNodes: []string{}}

	if nodes := cluster.Get("live_nodes"); nodes.Exists() {
		if !nodes.IsArray() {
			return nil, &DecodeError{Action: resp.Action, Reason: "live_nodes must be a list", Body: resp.Body()}
		}
		for _, n := range nodes.Array() {
			s.LiveNodes = append(s.LiveNodes, n.String())
		}
	}

	aliases, err := decodeAliasMappings(resp.Action, cluster.Get("aliases"), resp.Body())
	if err != nil {
		return nil, err
	}
	s.Aliases = aliases

	collections := cluster.Get("collections")
	switch {
	case !collections.Exists(), collections.Type == gjson.Null:
		s.shape = collectionsShapeEmpty
	case collections.IsArray():
		if len(collections.Array()) == 0 {
			s.shape = collectionsShapeEmpty
		} else {
			s.shape = collectionsShapeMalformed
			s.collectionsErr = &DecodeError{Action: resp.Action, Reason: "collections must be an object, got a non-empty list", Body: resp.Body()}
		}
	case collections.IsObject():
		s.shape = collectionsShapeObject
		s.collections = []Collection{}
		collections.ForEach(func(key, value gjson.Result) bool {
			c, cErr := decodeCollection(key.String(), value)
			if cErr != nil {
				s.shape = collectionsShapeMalformed
				s.collectionsErr = &DecodeError{Action: resp.Action, Reason: "invalid collection " + key.String(), Body: resp.Body(), Err: cErr}
				s.collections = nil
				return false
			}
			s.collections = append(s.collections, c)
			return true
		})
	default:
		s.shape = collectionsShapeMalformed
		s.collectionsErr = &DecodeError{Action: resp.Action, Reason: "collections must be an object, got " + collections.Raw, Body: resp.Body()}
	}

	return s, nil
}

func decodeCollection(name string, v gjson.Result) (Collection, error) {
	if !v.IsObject() {
		return Collection{}, fmt.Errorf("expected an object, got %s", v.Raw)
	}

	c := Collection{
		Name:       name,
		Router:     Router{Name: DefaultRouterName, Field: v.Get("router.field").String()},
		ConfigName: v.Get("configName").String(),
		Health:     v.Get("health").String(),
		Aliases:    []string{},
	}
	if r := v.Get("router.name").String(); r != "" {
		c.Router.Name = r
	}

	counts := []struct {
		key string
		dst *int
	}{
		{"replicationFactor", &c.ReplicationFactor},
		{"nrtReplicas", &c.NrtReplicas},
		{"tlogReplicas", &c.TlogReplicas},
		{"pullReplicas", &c.PullReplicas},
	}
	for _, cnt := range counts {
		f := v.Get(cnt.key)
		if !f.Exists() || f.Type == gjson.Null {
			continue
		}
		n, err := cast.ToIntE(f.Value())
		if err != nil {
			return Collection{}, fmt.Errorf("%s: %w", cnt.key, err)
		}
		*cnt.dst = n
	}

	if ms := v.Get("creationTimeMillis"); ms.Exists() {
		c.CreatedAt = time.UnixMilli(ms.Int()).UTC()
	}

	for _, a := range v.Get("aliases").Array() {
		c.Aliases = append(c.Aliases, a.String())
	}

	shards := v.Get("shards")
	if shards.Exists() && !shards.IsObject() {
		return Collection{}, fmt.Errorf("shards must be an object, got %s", shards.Raw)
	}
	shards.ForEach(func(key, value gjson.Result) bool {
		c.Shards = append(c.Shards, decodeShard(key.String(), value))
		return true
	})
	c.NumShards = len(c.Shards)

	return c, nil
}

func decodeShard(name string, v gjson.Result) Shard {
	s := Shard{
		Name:   name,
		Range:  v.Get("range").String(),
		State:  v.Get("state").String(),
		Health: v.Get("health").String(),
	}

	v.Get("replicas").ForEach(func(key, value gjson.Result) bool {
		s.Replicas = append(s.Replicas, Replica{
			Name:     key.String(),
			Core:     value.Get("core").String(),
			NodeName: value.Get("node_name").String(),
			BaseURL:  value.Get("base_url").String(),
			Type:     value.Get("type").String(),
			State:    value.Get("state").String(),
			Leader:   cast.ToBool(value.Get("leader").Value()),
		})
		return true
	})

	return s
}
