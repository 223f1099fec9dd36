// Package solrxtest provides an in-memory SolrCloud Collections API for tests.
package solrxtest

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

const DefaultNodeName = "127.0.0.1:8983_solr"

type collection struct {
	name      string
	router    string
	numShards int
	nrt       int
	tlog      int
	pull      int
	createdAt time.Time
}

// Failure is a canned error answered instead of handling an action.
type Failure struct {
	StatusCode int
	Body       []byte
}

// Server answers the Collections API from memory. Aliases keep their creation order and
// repointing an alias keeps its position.
type Server struct {
	*httptest.Server

	mu                     sync.Mutex
	basePath               string
	node                   string
	emptyCollectionsAsList bool
	collections            []*collection
	aliasNames             []string
	aliasTargets           map[string]string
	requests               map[string]int
	failures               map[string]Failure
}

type Option func(*Server)

// WithBasePath serves the API under path instead of "solr".
func WithBasePath(path string) Option {
	return func(s *Server) {
		s.basePath = strings.Trim(path, "/")
	}
}

// WithCollectionsAsObject reports an empty cluster with "collections":{} rather than
// the "collections":[] Solr actually sends.
func WithCollectionsAsObject() Option {
	return func(s *Server) {
		s.emptyCollectionsAsList = false
	}
}

func WithNodeName(name string) Option {
	return func(s *Server) {
		s.node = name
	}
}

// NewServer starts a Server. Close it when done.
func NewServer(opts ...Option) *Server {
	s := &Server{
		basePath:               "solr",
		node:                   DefaultNodeName,
		emptyCollectionsAsList: true,
		aliasTargets:           map[string]string{},
		requests:               map[string]int{},
		failures:               map[string]Failure{},
	}
	for _, opt := range opts {
		opt(s)
	}

	prefix := "/"
	if s.basePath != "" {
		prefix += s.basePath + "/"
	}

	mux := http.NewServeMux()
	mux.HandleFunc(prefix+"admin/collections", s.handleCollections)
	mux.HandleFunc(prefix+"admin/info/system", s.handleSystemInfo)
	s.Server = httptest.NewServer(mux)

	return s
}

// Host returns the host the server listens on.
func (s *Server) Host() string {
	host, _, _ := net.SplitHostPort(s.Listener.Addr().String())
	return host
}

func (s *Server) Port() int {
	_, port, _ := net.SplitHostPort(s.Listener.Addr().String())
	p, _ := strconv.Atoi(port)
	return p
}

func (s *Server) BasePath() string {
	return s.basePath
}

// Requests returns the number of requests received for an action, e.g. "CREATE".
func (s *Server) Requests(action string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[strings.ToUpper(action)]
}

// TotalRequests returns the number of requests received for every action.
func (s *Server) TotalRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.requests {
		total += n
	}
	return total
}

// FailNext makes every following request for action answer f, until Recover is called.
func (s *Server) FailNext(action string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[strings.ToUpper(action)] = f
}

func (s *Server) Recover(action string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, strings.ToUpper(action))
}

// CollectionNames returns the collections in creation order.
func (s *Server) CollectionNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.collections))
	for _, c := range s.collections {
		names = append(names, c.name)
	}
	return names
}

func (s *Server) handleSystemInfo(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests["SYSTEM"]++

	if f, ok := s.failures["SYSTEM"]; ok {
		write(w, f.StatusCode, f.Body)
		return
	}

	b := responseHeader(0)
	b = setRaw(b, "mode", "solrcloud")
	b = setRaw(b, "lucene", object{{"solr-spec-version", "9.6.1"}, {"lucene-spec-version", "9.10.0"}})
	write(w, http.StatusOK, b)
}

func (s *Server) handleCollections(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	action := strings.ToUpper(q.Get("action"))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[action]++

	if f, ok := s.failures[action]; ok {
		write(w, f.StatusCode, f.Body)
		return
	}

	var (
		status int
		body   []byte
	)
	switch action {
	case "CLUSTERSTATUS":
		status, body = s.clusterStatus(q.Get("collection"))
	case "CREATE":
		status, body = s.create(q)
	case "DELETE":
		status, body = s.delete(q.Get("name"))
	case "CREATEALIAS":
		status, body = s.createAlias(q.Get("name"), q.Get("collections"))
	case "DELETEALIAS":
		status, body = s.deleteAlias(q.Get("name"))
	case "LISTALIASES":
		status, body = s.listAliases()
	default:
		status, body = http.StatusBadRequest, errorBody(http.StatusBadRequest, "Unknown action: "+q.Get("action"))
	}

	write(w, status, body)
}

func write(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json;charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func badRequest(format string, args ...any) (int, []byte) {
	return http.StatusBadRequest, errorBody(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

func (s *Server) find(name string) (int, *collection) {
	for i, c := range s.collections {
		if c.name == name {
			return i, c
		}
	}
	return -1, nil
}

func (s *Server) aliasesOf(name string) []string {
	aliases := []string{}
	for _, a := range s.aliasNames {
		if s.aliasTargets[a] == name {
			aliases = append(aliases, a)
		}
	}
	return aliases
}

func (s *Server) clusterStatus(scope string) (int, []byte) {
	collections := object{}
	for _, c := range s.collections {
		if scope != "" && c.name != scope {
			continue
		}
		collections = append(collections, field{c.name, s.describe(c)})
	}

	if scope != "" && len(collections) == 0 {
		return badRequest("Collection: %s not found", scope)
	}

	b := responseHeader(0)
	if len(collections) == 0 && s.emptyCollectionsAsList {
		b = setRaw(b, "cluster.collections", []any{})
	} else {
		b = setRaw(b, "cluster.collections", collections)
	}
	if len(s.aliasNames) > 0 {
		b = setRaw(b, "cluster.aliases", s.aliasObject())
	}
	b = setRaw(b, "cluster.live_nodes", []string{s.node})

	return http.StatusOK, b
}

func (s *Server) describe(c *collection) object {
	baseURL := "http://" + strings.Replace(s.node, "_", "/", 1)

	shards := object{}
	ranges := shardRanges(c.numShards)
	replica := 0
	for i := 1; i <= c.numShards; i++ {
		replicas := object{}
		leader := true
		for _, role := range []struct {
			kind  string
			short string
			count int
		}{{"NRT", "n", c.nrt}, {"TLOG", "t", c.tlog}, {"PULL", "p", c.pull}} {
			for j := 0; j < role.count; j++ {
				replica++
				r := object{
					{"core", fmt.Sprintf("%s_shard%d_replica_%s%d", c.name, i, role.short, replica)},
					{"node_name", s.node},
					{"base_url", baseURL},
					{"state", "active"},
					{"type", role.kind},
					{"force_set_state", "false"},
				}
				if leader && role.kind != "PULL" {
					r = append(r, field{"leader", "true"})
					leader = false
				}
				replicas = append(replicas, field{fmt.Sprintf("core_node%d", replica), r})
			}
		}
		shards = append(shards, field{fmt.Sprintf("shard%d", i), object{
			{"range", ranges[i-1]},
			{"state", "active"},
			{"replicas", replicas},
			{"health", "GREEN"},
		}})
	}

	desc := object{
		{"pullReplicas", strconv.Itoa(c.pull)},
		{"configName", "_default"},
		{"replicationFactor", c.nrt},
		{"router", object{{"name", c.router}}},
		{"nrtReplicas", c.nrt},
		{"tlogReplicas", strconv.Itoa(c.tlog)},
		{"shards", shards},
		{"health", "GREEN"},
		{"znodeVersion", 7},
		{"creationTimeMillis", c.createdAt.UnixMilli()},
	}
	if aliases := s.aliasesOf(c.name); len(aliases) > 0 {
		desc = append(desc, field{"aliases", aliases})
	}
	return desc
}

// shardRanges splits the 32 bit hash ring like the compositeId router.
func shardRanges(n int) []string {
	ranges := make([]string, 0, n)
	size := (uint64(math.MaxUint32) + 1) / uint64(n)
	start := int64(math.MinInt32)
	for i := 0; i < n; i++ {
		end := start + int64(size) - 1
		if i == n-1 {
			end = math.MaxInt32
		}
		ranges = append(ranges, fmt.Sprintf("%08x-%08x", uint32(int32(start)), uint32(int32(end))))
		start = end + 1
	}
	return ranges
}

func intParam(q map[string][]string, key string, def int) (int, error) {
	v, ok := q[key]
	if !ok || len(v) == 0 || v[0] == "" {
		return def, nil
	}
	return strconv.Atoi(v[0])
}

func (s *Server) create(q map[string][]string) (int, []byte) {
	name := ""
	if v := q["name"]; len(v) > 0 {
		name = v[0]
	}
	if name == "" {
		return badRequest("Missing required parameter: name")
	}
	if _, c := s.find(name); c != nil {
		return badRequest("collection already exists: %s", name)
	}

	numShards, err := intParam(q, "numShards", 1)
	if err != nil || numShards < 1 {
		return badRequest("numShards must be > 0")
	}
	rf, err := intParam(q, "replicationFactor", 1)
	if err != nil {
		return badRequest("replicationFactor must be an integer")
	}
	nrt, err := intParam(q, "nrtReplicas", rf)
	if err != nil {
		return badRequest("nrtReplicas must be an integer")
	}
	tlog, err := intParam(q, "tlogReplicas", 0)
	if err != nil {
		return badRequest("tlogReplicas must be an integer")
	}
	pull, err := intParam(q, "pullReplicas", 0)
	if err != nil {
		return badRequest("pullReplicas must be an integer")
	}
	if nrt+tlog < 1 {
		return badRequest("At least one NRT or TLOG replica is required")
	}

	router := "compositeId"
	if v := q["router.name"]; len(v) > 0 && v[0] != "" {
		router = v[0]
	}

	c := &collection{
		name:      name,
		router:    router,
		numShards: numShards,
		nrt:       nrt,
		tlog:      tlog,
		pull:      pull,
		createdAt: time.Now(),
	}
	s.collections = append(s.collections, c)

	cores := object{}
	for i := 1; i <= numShards; i++ {
		cores = append(cores, field{fmt.Sprintf("%s#%d", s.node, i), object{
			{"responseHeader", object{{"status", 0}, {"QTime", 1}}},
			{"core", fmt.Sprintf("%s_shard%d_replica_n%d", name, i, i)},
		}})
	}

	b := responseHeader(0)
	b = setRaw(b, "success", cores)
	return http.StatusOK, b
}

func (s *Server) delete(name string) (int, []byte) {
	i, c := s.find(name)
	if c == nil {
		return badRequest("Could not find collection : %s", name)
	}
	if aliases := s.aliasesOf(name); len(aliases) > 0 {
		return badRequest("Collection : %s is part of aliases: [%s], remove or modify the aliases before removing this collection.", name, strings.Join(aliases, ", "))
	}

	s.collections = append(s.collections[:i], s.collections[i+1:]...)

	b := responseHeader(0)
	b = setRaw(b, "success", object{{s.node, object{{"responseHeader", object{{"status", 0}, {"QTime", 1}}}}}})
	return http.StatusOK, b
}

func (s *Server) createAlias(alias, collections string) (int, []byte) {
	if alias == "" {
		return badRequest("Missing required parameter: name")
	}
	if collections == "" {
		return badRequest("Missing required parameter: collections")
	}
	for _, c := range strings.Split(collections, ",") {
		if _, col := s.find(c); col == nil {
			return badRequest("Can't create collection alias for collections='%s', '%s' is not an existing collection or alias", collections, c)
		}
	}

	if _, ok := s.aliasTargets[alias]; !ok {
		s.aliasNames = append(s.aliasNames, alias)
	}
	s.aliasTargets[alias] = collections

	return http.StatusOK, responseHeader(0)
}

func (s *Server) deleteAlias(alias string) (int, []byte) {
	if alias == "" {
		return badRequest("Missing required parameter: name")
	}

	if _, ok := s.aliasTargets[alias]; ok {
		delete(s.aliasTargets, alias)
		for i, a := range s.aliasNames {
			if a == alias {
				s.aliasNames = append(s.aliasNames[:i], s.aliasNames[i+1:]...)
				break
			}
		}
	}

	return http.StatusOK, responseHeader(0)
}

func (s *Server) aliasObject() object {
	aliases := object{}
	for _, a := range s.aliasNames {
		aliases = append(aliases, field{a, s.aliasTargets[a]})
	}
	return aliases
}

func (s *Server) listAliases() (int, []byte) {
	b := responseHeader(0)
	b = setRaw(b, "aliases", s.aliasObject())
	b = setRaw(b, "properties", object{})
	return http.StatusOK, b
}
