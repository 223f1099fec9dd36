package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinia/solrx/solrx/solrxtest"
)

type cli struct {
	t      *testing.T
	server *solrxtest.Server
}

func newCLI(t *testing.T) *cli {
	server := solrxtest.NewServer()
	t.Cleanup(server.Close)
	return &cli{t: t, server: server}
}

func (c *cli) run(args ...string) (int, string, string) {
	c.t.Helper()

	var out, errOut bytes.Buffer
	args = append(args,
		"--endpoint.host", c.server.Host(),
		"--endpoint.port", strconv.Itoa(c.server.Port()),
		"--log.level", "error",
	)
	code := executeWith(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	code, out, errOut := c.run(args...)
	require.Equal(c.t, ExitCodeSuccess, code, errOut)
	return out
}

func TestCollectionCommands(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("create", "products", "--num-shards", "2", "--option", "replication_factor=2")
	assert.Contains(t, out, "collection products created")

	out = c.mustRun("collections", "-q")
	assert.Equal(t, "products\n", out)

	out = c.mustRun("status", "products")
	assert.Contains(t, out, "products")
	assert.Contains(t, out, "shard2")

	out = c.mustRun("status", "-o", "json")
	var status struct {
		LiveNodes   []string `json:"live_nodes"`
		Collections []struct {
			Name        string
			NumShards   int
			NrtReplicas int
		} `json:"collections"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, []string{solrxtest.DefaultNodeName}, status.LiveNodes)
	require.Len(t, status.Collections, 1)
	assert.Equal(t, 2, status.Collections[0].NumShards)
	assert.Equal(t, 2, status.Collections[0].NrtReplicas)

	code, _, errOut := c.run("create", "products")
	assert.Equal(t, ExitCodeError, code)
	assert.Contains(t, errOut, "already exists")

	code, _, _ = c.run("delete", "products")
	assert.Equal(t, ExitCodeError, code)
	assert.Equal(t, []string{"products"}, c.server.CollectionNames())

	c.mustRun("delete", "products", "--yes")
	assert.Empty(t, c.server.CollectionNames())

	code, _, _ = c.run("status", "products")
	assert.Equal(t, ExitCodeNotFound, code)

	code, _, _ = c.run("delete", "products", "-y")
	assert.Equal(t, ExitCodeNotFound, code)
}

func TestCreateRejectsUnknownOptions(t *testing.T) {
	c := newCLI(t)

	code, _, errOut := c.run("create", "products", "--option", "shards=2")
	assert.Equal(t, ExitCodeInvalidArgument, code)
	assert.Contains(t, errOut, `option "shards" is not recognized`)
	assert.Equal(t, 0, c.server.Requests("CREATE"))
}

func TestEnsureCommand(t *testing.T) {
	c := newCLI(t)

	c.mustRun("create", "b")
	out := c.mustRun("ensure", "a", "b", "c", "--concurrency", "2")
	assert.Contains(t, out, "3 collection(s) ensured")
	assert.ElementsMatch(t, []string{"a", "b", "c"}, c.server.CollectionNames())
	assert.Equal(t, 3, c.server.Requests("CREATE"))

	code, _, _ := c.run("ensure", "d", "--concurrency", "0")
	assert.Equal(t, ExitCodeInvalidArgument, code)
}

func TestAliasCommands(t *testing.T) {
	c := newCLI(t)

	c.mustRun("ensure", "foo", "bar")
	c.mustRun("alias", "foo", "a1")
	c.mustRun("alias", "foo", "a2")
	c.mustRun("alias", "bar", "a1")

	out := c.mustRun("aliases", "-o", "json")
	var mappings map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &mappings))
	assert.Equal(t, map[string]string{"a1": "bar", "a2": "foo"}, mappings)

	out = c.mustRun("aliases")
	assert.Contains(t, out, "a1")
	assert.Contains(t, out, "bar")

	c.mustRun("delete-alias", "a2")
	c.mustRun("delete-alias", "a2")

	out = c.mustRun("aliases", "--output", "json")
	mappings = nil
	require.NoError(t, json.Unmarshal([]byte(out), &mappings))
	assert.Equal(t, map[string]string{"a1": "bar"}, mappings)

	code, _, _ := c.run("aliases", "-o", "yaml")
	assert.Equal(t, ExitCodeInvalidArgument, code)
}

func TestPingCommand(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("ping", "--wait", "1s")
	assert.Contains(t, out, "solrcloud")
	assert.Equal(t, 2, c.server.Requests("SYSTEM"))

	out = c.mustRun("ping", "--timeout", "5s")
	assert.Contains(t, out, "solrcloud")
}

func TestInvalidConfiguration(t *testing.T) {
	c := newCLI(t)

	code, _, errOut := c.run("collections", "--endpoint.scheme", "ftp")
	assert.Equal(t, ExitCodeInvalidArgument, code)
	assert.Contains(t, errOut, "configuration is invalid")
}

func TestUnreachableCluster(t *testing.T) {
	c := newCLI(t)
	c.server.Close()

	code, _, errOut := c.run("collections")
	assert.Equal(t, ExitCodeUnavailable, code)
	assert.Contains(t, errOut, "request to")
}
