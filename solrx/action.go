package solrx

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/clinia/solrx/errorx"
)

const collectionsAdminPath = "admin/collections"

// ActionKind is a Collections API action name.
type ActionKind string

const (
	ActionClusterStatus ActionKind = "CLUSTERSTATUS"
	ActionCreate        ActionKind = "CREATE"
	ActionDelete        ActionKind = "DELETE"
	ActionCreateAlias   ActionKind = "CREATEALIAS"
	ActionDeleteAlias   ActionKind = "DELETEALIAS"
	ActionListAliases   ActionKind = "LISTALIASES"
)

func (k ActionKind) String() string {
	return string(k)
}

// Action describes one Collections API request. It performs no I/O.
type Action struct {
	Kind   ActionKind
	Params url.Values
}

func newAction(kind ActionKind) *Action {
	return &Action{Kind: kind, Params: url.Values{}}
}

// NewClusterStatusAction describes a CLUSTERSTATUS request, scoped to the first name when given.
func NewClusterStatusAction(name ...string) *Action {
	a := newAction(ActionClusterStatus)
	if len(name) > 0 && name[0] != "" {
		a.Params.Set("collection", name[0])
	}
	return a
}

// NewCreateAction describes a CREATE request carrying the resolved settings.
func NewCreateAction(name string, s CreateSettings) *Action {
	a := newAction(ActionCreate)
	a.Params.Set("name", name)
	a.Params.Set("numShards", strconv.Itoa(s.NumShards))
	a.Params.Set("router.name", s.RouterName)
	a.Params.Set("nrtReplicas", strconv.Itoa(s.NrtReplicas))
	a.Params.Set("pullReplicas", strconv.Itoa(s.PullReplicas))
	a.Params.Set("tlogReplicas", strconv.Itoa(s.TlogReplicas))
	return a
}

func NewDeleteAction(name string) *Action {
	a := newAction(ActionDelete)
	a.Params.Set("name", name)
	return a
}

// NewCreateAliasAction describes a CREATEALIAS request pointing alias at collection.
func NewCreateAliasAction(alias, collection string) *Action {
	a := newAction(ActionCreateAlias)
	a.Params.Set("name", alias)
	a.Params.Set("collections", collection)
	return a
}

func NewDeleteAliasAction(alias string) *Action {
	a := newAction(ActionDeleteAlias)
	a.Params.Set("name", alias)
	return a
}

func NewListAliasesAction() *Action {
	return newAction(ActionListAliases)
}

var requiredParams = map[ActionKind][]string{
	ActionCreate:      {"name", "numShards", "router.name"},
	ActionDelete:      {"name"},
	ActionCreateAlias: {"name", "collections"},
	ActionDeleteAlias: {"name"},
}

// Validate checks that the parameters the action cannot do without are present.
func (a *Action) Validate() error {
	if a == nil {
		return errorx.InvalidArgumentErrorf("action is nil")
	}

	if _, ok := requiredParams[a.Kind]; !ok && a.Kind != ActionClusterStatus && a.Kind != ActionListAliases {
		return errorx.InvalidArgumentErrorf("unknown action %q", a.Kind)
	}

	var missing []*errorx.CliniaError
	for _, p := range requiredParams[a.Kind] {
		if a.Params.Get(p) == "" {
			missing = append(missing, errorx.InvalidArgumentErrorf("parameter %q is required", p))
		}
	}

	if len(missing) > 0 {
		return errorx.InvalidArgumentErrorf("action %s is missing %d required parameter(s)", a.Kind, len(missing)).WithDetails(missing...)
	}

	return nil
}

// Path renders the action relative to the Solr base path, e.g.
// admin/collections?action=CREATEALIAS&name=a1&collections=foo.
// "name" comes first and the remaining parameters are sorted.
func (a *Action) Path() string {
	var sb strings.Builder
	sb.WriteString(collectionsAdminPath)
	sb.WriteString("?action=")
	sb.WriteString(url.QueryEscape(a.Kind.String()))

	keys := make([]string, 0, len(a.Params))
	for k := range a.Params {
		if k != "name" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if _, ok := a.Params["name"]; ok {
		keys = append([]string{"name"}, keys...)
	}

	for _, k := range keys {
		for _, v := range a.Params[k] {
			sb.WriteByte('&')
			sb.WriteString(url.QueryEscape(k))
			sb.WriteByte('=')
			sb.WriteString(url.QueryEscape(v))
		}
	}

	return sb.String()
}

// actionKindFromPath extracts the action of a raw admin path, for labelling.
func actionKindFromPath(path string) ActionKind {
	base, query, _ := strings.Cut(path, "?")

	values, err := url.ParseQuery(query)
	if err != nil || values.Get("action") == "" {
		return ActionKind(strings.Trim(base, "/"))
	}

	return ActionKind(strings.ToUpper(values.Get("action")))
}
