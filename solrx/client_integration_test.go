package solrx

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/clinia/solrx/errorx"
	"github.com/clinia/solrx/solrx/solrxtest"
)

type CollectionManagerTestSuite struct {
	suite.Suite
	ctx     context.Context
	server  *solrxtest.Server
	manager CollectionManager
}

func TestCollectionManagerTestSuite(t *testing.T) {
	suite.Run(t, new(CollectionManagerTestSuite))
}

func (s *CollectionManagerTestSuite) SetupSuite() {
	s.ctx = context.Background()
	s.server = solrxtest.NewServer()

	transport, err := NewHTTPTransport(endpointOf(s.server))
	s.Require().NoError(err)

	s.manager, err = NewCollectionManager(transport)
	s.Require().NoError(err)
}

func (s *CollectionManagerTestSuite) TearDownSuite() {
	s.server.Close()
}

// SetupTest leaves an empty cluster behind: aliases first, since aliased collections can't be deleted.
func (s *CollectionManagerTestSuite) SetupTest() {
	aliases, err := s.manager.Aliases(s.ctx)
	s.Require().NoError(err)
	for _, a := range aliases {
		_, err := s.manager.DeleteAlias(s.ctx, a)
		s.Require().NoError(err)
	}

	collections, err := s.manager.Collections(s.ctx)
	s.Require().NoError(err)
	for _, c := range collections {
		_, err := s.manager.Delete(s.ctx, c.Name)
		s.Require().NoError(err)
	}
}

func newName(prefix string) string {
	return prefix + "_" + strings.ToLower(ksuid.New().String())
}

func (s *CollectionManagerTestSuite) TestEmptyCluster() {
	collections, err := s.manager.Collections(s.ctx)
	s.Require().NoError(err)
	s.NotNil(collections)
	s.Empty(collections)

	aliases, err := s.manager.Aliases(s.ctx)
	s.Require().NoError(err)
	s.NotNil(aliases)
	s.Empty(aliases)

	exists, err := s.manager.HasCollection(s.ctx, "foo")
	s.Require().NoError(err)
	s.False(exists)

	status, err := s.manager.Status(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{solrxtest.DefaultNodeName}, status.LiveNodes)
	s.Equal(0, status.Aliases.Len())
}

func (s *CollectionManagerTestSuite) TestCreate() {
	s.Run("should create with defaults", func() {
		name := newName("defaults")

		resp, err := s.manager.Create(s.ctx, name, nil)
		s.Require().NoError(err)
		s.True(resp.Get("success").Exists())

		status, err := s.manager.Status(s.ctx, name)
		s.Require().NoError(err)

		c, found := status.Collection(name)
		s.Require().True(found)
		s.Equal(1, c.NumShards)
		s.Equal(1, c.NrtReplicas)
		s.Equal(0, c.TlogReplicas)
		s.Equal(0, c.PullReplicas)
		s.Equal(DefaultRouterName, c.Router.Name)
		s.False(c.CreatedAt.IsZero())
	})

	s.Run("should honor the options", func() {
		name := newName("options")

		_, err := s.manager.Create(s.ctx, name, CreateOptions{
			OptionNumShards:    "3",
			OptionNrtReplicas:  2,
			OptionTlogReplicas: 1,
			OptionPullReplicas: 1,
		})
		s.Require().NoError(err)

		status, err := s.manager.Status(s.ctx, name)
		s.Require().NoError(err)

		c, found := status.Collection(name)
		s.Require().True(found)
		s.Equal(3, c.NumShards)
		s.Equal(2, c.NrtReplicas)
		s.Equal(1, c.TlogReplicas)
		s.Equal(1, c.PullReplicas)
		s.Len(c.Shards[0].Replicas, 4)
	})

	s.Run("should reject unknown options before reaching the cluster", func() {
		before := s.server.Requests("CREATE")

		_, err := s.manager.Create(s.ctx, newName("unknown"), CreateOptions{"shards": 2})
		s.True(errorx.IsInvalidArgumentError(err))
		s.Equal(before, s.server.Requests("CREATE"))
	})

	s.Run("should fail on duplicates", func() {
		name := newName("dup")

		_, err := s.manager.Create(s.ctx, name, nil)
		s.Require().NoError(err)

		_, err = s.manager.Create(s.ctx, name, nil)
		s.True(IsAlreadyExistsError(err))
		s.True(errorx.IsAlreadyExistsError(err))

		rerr, ok := IsRemoteError(err)
		s.Require().True(ok)
		s.Equal(ActionCreate, rerr.Action)
		s.Contains(rerr.Message, name)
	})
}

func (s *CollectionManagerTestSuite) TestCollectionsKeepServerOrder() {
	names := []string{newName("c"), newName("b"), newName("a")}
	for _, name := range names {
		_, err := s.manager.Create(s.ctx, name, nil)
		s.Require().NoError(err)
	}

	status, err := s.manager.Status(s.ctx)
	s.Require().NoError(err)
	s.Equal(names, status.CollectionNames())

	for _, name := range names {
		exists, err := s.manager.HasCollection(s.ctx, name)
		s.Require().NoError(err)
		s.True(exists)
	}
}

func (s *CollectionManagerTestSuite) TestStatusOfUnknownCollection() {
	status, err := s.manager.Status(s.ctx, newName("missing"))
	s.Require().NoError(err)

	collections, err := status.Collections()
	s.Require().NoError(err)
	s.Empty(collections)
}

func (s *CollectionManagerTestSuite) TestEnsureCollection() {
	name := newName("ensure")

	s.Require().NoError(s.manager.EnsureCollection(s.ctx, name))
	s.Require().NoError(s.manager.EnsureCollection(s.ctx, name))

	collections, err := s.manager.Collections(s.ctx)
	s.Require().NoError(err)
	s.Len(collections, 1)
	s.Equal(name, collections[0].Name)
}

func (s *CollectionManagerTestSuite) TestEnsureCollectionConcurrently() {
	name := newName("race")

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.manager.EnsureCollection(s.ctx, name)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			s.True(IsAlreadyExistsError(err))
		}
	}
	s.Equal([]string{name}, s.server.CollectionNames())
}

func (s *CollectionManagerTestSuite) TestDelete() {
	name := newName("delete")

	_, err := s.manager.Create(s.ctx, name, nil)
	s.Require().NoError(err)

	_, err = s.manager.Delete(s.ctx, name)
	s.Require().NoError(err)

	exists, err := s.manager.HasCollection(s.ctx, name)
	s.Require().NoError(err)
	s.False(exists)

	_, err = s.manager.Delete(s.ctx, name)
	s.True(IsNotFoundError(err))
}

func (s *CollectionManagerTestSuite) TestAliases() {
	foo, bar := newName("foo"), newName("bar")
	for _, name := range []string{foo, bar} {
		_, err := s.manager.Create(s.ctx, name, nil)
		s.Require().NoError(err)
	}

	s.Run("should create aliases in order", func() {
		_, err := s.manager.Alias(s.ctx, foo, "a1")
		s.Require().NoError(err)
		_, err = s.manager.Alias(s.ctx, foo, "a2")
		s.Require().NoError(err)

		aliases, err := s.manager.Aliases(s.ctx)
		s.Require().NoError(err)
		s.Equal([]string{"a1", "a2"}, aliases)

		collection, found, err := s.manager.AliasedCollection(s.ctx, "a1")
		s.Require().NoError(err)
		s.True(found)
		s.Equal(foo, collection)
	})

	s.Run("should repoint an alias in place", func() {
		_, err := s.manager.Alias(s.ctx, bar, "a1")
		s.Require().NoError(err)

		mappings, err := s.manager.AliasMappings(s.ctx)
		s.Require().NoError(err)
		s.Equal([]string{"a1", "a2"}, mappings.Names())
		s.Equal(map[string]string{"a1": bar, "a2": foo}, mappings.Map())

		status, err := s.manager.Status(s.ctx)
		s.Require().NoError(err)
		c, found := status.Collection(bar)
		s.Require().True(found)
		s.Equal([]string{"a1"}, c.Aliases)
	})

	s.Run("should not delete an aliased collection", func() {
		_, err := s.manager.Delete(s.ctx, foo)
		s.Require().Error(err)
		s.False(IsNotFoundError(err))
		s.True(errorx.IsFailedPreconditionError(err))
	})

	s.Run("should reject aliases to unknown collections", func() {
		_, err := s.manager.Alias(s.ctx, newName("missing"), "a3")
		_, ok := IsRemoteError(err)
		s.True(ok)

		has, err := s.manager.HasAlias(s.ctx, "a3")
		s.Require().NoError(err)
		s.False(has)
	})

	s.Run("should delete aliases", func() {
		_, err := s.manager.DeleteAlias(s.ctx, "a2")
		s.Require().NoError(err)

		has, err := s.manager.HasAlias(s.ctx, "a2")
		s.Require().NoError(err)
		s.False(has)

		_, found, err := s.manager.AliasedCollection(s.ctx, "a2")
		s.Require().NoError(err)
		s.False(found)

		// absent aliases are not an error
		_, err = s.manager.DeleteAlias(s.ctx, "a2")
		s.NoError(err)
	})
}

func TestCollectionManagerWithObjectShape(t *testing.T) {
	server := solrxtest.NewServer(solrxtest.WithCollectionsAsObject(), solrxtest.WithBasePath("api/solr"))
	defer server.Close()

	transport, err := NewHTTPTransport(endpointOf(server))
	require.NoError(t, err)
	m, err := NewCollectionManager(transport)
	require.NoError(t, err)

	collections, err := m.Collections(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, collections)
	assert.Empty(t, collections)
}
