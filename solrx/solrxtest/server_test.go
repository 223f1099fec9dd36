package solrxtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func get(t *testing.T, s *Server, path string, params url.Values) (int, gjson.Result) {
	t.Helper()
	resp, err := http.Get(s.URL + "/" + s.BasePath() + "/" + path + "?" + params.Encode())
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, json.Valid(b), string(b))
	return resp.StatusCode, gjson.ParseBytes(b)
}

func collectionsAPI(t *testing.T, s *Server, action string, kv ...string) (int, gjson.Result) {
	t.Helper()
	params := url.Values{"action": {action}}
	for i := 0; i+1 < len(kv); i += 2 {
		params.Set(kv[i], kv[i+1])
	}
	return get(t, s, "admin/collections", params)
}

func TestServer(t *testing.T) {
	t.Run("should report an empty cluster as a list", func(t *testing.T) {
		s := NewServer()
		defer s.Close()

		status, body := collectionsAPI(t, s, "CLUSTERSTATUS")
		assert.Equal(t, http.StatusOK, status)
		assert.True(t, body.Get("cluster.collections").IsArray())
		assert.Equal(t, DefaultNodeName, body.Get("cluster.live_nodes.0").String())
	})

	t.Run("should report an empty cluster as an object when asked", func(t *testing.T) {
		s := NewServer(WithCollectionsAsObject(), WithNodeName("solr-1:8983_solr"))
		defer s.Close()

		_, body := collectionsAPI(t, s, "CLUSTERSTATUS")
		assert.True(t, body.Get("cluster.collections").IsObject())
		assert.Equal(t, "solr-1:8983_solr", body.Get("cluster.live_nodes.0").String())
	})

	t.Run("should manage collections", func(t *testing.T) {
		s := NewServer(WithBasePath("/api/solr/"))
		defer s.Close()
		assert.Equal(t, "api/solr", s.BasePath())

		status, body := collectionsAPI(t, s, "CREATE", "name", "foo", "numShards", "2", "nrtReplicas", "1")
		require.Equal(t, http.StatusOK, status, body.Raw)
		assert.Equal(t, int64(0), body.Get("responseHeader.status").Int())

		status, body = collectionsAPI(t, s, "CREATE", "name", "foo")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "collection already exists: foo", body.Get("error.msg").String())

		_, body = collectionsAPI(t, s, "CLUSTERSTATUS", "collection", "foo")
		shards := body.Get("cluster.collections.foo.shards")
		assert.Equal(t, "80000000-ffffffff", shards.Get("shard1.range").String())
		assert.Equal(t, "00000000-7fffffff", shards.Get("shard2.range").String())
		assert.Equal(t, "0", body.Get("cluster.collections.foo.pullReplicas").String())

		status, body = collectionsAPI(t, s, "CLUSTERSTATUS", "collection", "bar")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Collection: bar not found", body.Get("error.msg").String())

		status, _ = collectionsAPI(t, s, "DELETE", "name", "foo")
		assert.Equal(t, http.StatusOK, status)
		assert.Empty(t, s.CollectionNames())

		status, body = collectionsAPI(t, s, "DELETE", "name", "foo")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Could not find collection : foo", body.Get("error.msg").String())
	})

	t.Run("should manage aliases", func(t *testing.T) {
		s := NewServer()
		defer s.Close()

		for _, name := range []string{"foo", "bar"} {
			status, _ := collectionsAPI(t, s, "CREATE", "name", name)
			require.Equal(t, http.StatusOK, status)
		}

		status, _ := collectionsAPI(t, s, "CREATEALIAS", "name", "a1", "collections", "foo")
		require.Equal(t, http.StatusOK, status)
		status, _ = collectionsAPI(t, s, "CREATEALIAS", "name", "a2", "collections", "foo")
		require.Equal(t, http.StatusOK, status)
		status, _ = collectionsAPI(t, s, "CREATEALIAS", "name", "a1", "collections", "bar")
		require.Equal(t, http.StatusOK, status)

		_, body := collectionsAPI(t, s, "LISTALIASES")
		assert.JSONEq(t, `{"a1":"bar","a2":"foo"}`, body.Get("aliases").Raw)
		keys := []string{}
		body.Get("aliases").ForEach(func(k, _ gjson.Result) bool {
			keys = append(keys, k.String())
			return true
		})
		assert.Equal(t, []string{"a1", "a2"}, keys)

		status, _ = collectionsAPI(t, s, "CREATEALIAS", "name", "a3", "collections", "missing")
		assert.Equal(t, http.StatusBadRequest, status)

		status, _ = collectionsAPI(t, s, "DELETE", "name", "foo")
		assert.Equal(t, http.StatusBadRequest, status)

		status, _ = collectionsAPI(t, s, "DELETEALIAS", "name", "a2")
		assert.Equal(t, http.StatusOK, status)
		status, _ = collectionsAPI(t, s, "DELETEALIAS", "name", "a2")
		assert.Equal(t, http.StatusOK, status)

		_, body = collectionsAPI(t, s, "CLUSTERSTATUS")
		assert.Equal(t, "bar", body.Get("cluster.aliases.a1").String())
		assert.Equal(t, `["a1"]`, body.Get("cluster.collections.bar.aliases").Raw)
	})

	t.Run("should count requests and serve canned failures", func(t *testing.T) {
		s := NewServer()
		defer s.Close()

		s.FailNext("listaliases", Failure{StatusCode: http.StatusInternalServerError, Body: []byte(`{"error":{"code":500,"msg":"boom"}}`)})
		status, body := collectionsAPI(t, s, "LISTALIASES")
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "boom", body.Get("error.msg").String())

		s.Recover("LISTALIASES")
		status, _ = collectionsAPI(t, s, "LISTALIASES")
		assert.Equal(t, http.StatusOK, status)

		status, body = get(t, s, "admin/info/system", url.Values{})
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "solrcloud", body.Get("mode").String())

		status, _ = collectionsAPI(t, s, "REBALANCE")
		assert.Equal(t, http.StatusBadRequest, status)

		assert.Equal(t, 2, s.Requests("LISTALIASES"))
		assert.Equal(t, 1, s.Requests("SYSTEM"))
		assert.Equal(t, 4, s.TotalRequests())
	})
}
