package solrx

import (
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cast"

	"github.com/clinia/solrx/errorx"
)

// Recognized CreateOptions keys.
const (
	OptionNumShards         = "num_shards"
	OptionRouterName        = "router_name"
	OptionNrtReplicas       = "nrt_replicas"
	OptionReplicationFactor = "replication_factor"
	OptionTlogReplicas      = "tlog_replicas"
	OptionPullReplicas      = "pull_replicas"
)

const DefaultRouterName = "compositeId"

// CreateOptions are the optional settings of a new collection, keyed by option name.
// Values may be ints, floats or numeric strings; they are coerced when resolved.
type CreateOptions map[string]any

// CreateSettings are CreateOptions resolved over the defaults.
type CreateSettings struct {
	NumShards    int
	RouterName   string
	NrtReplicas  int
	TlogReplicas int
	PullReplicas int
}

// DefaultCreateSettings returns the settings of a collection created without options.
func DefaultCreateSettings() CreateSettings {
	return CreateSettings{
		NumShards:    1,
		RouterName:   DefaultRouterName,
		NrtReplicas:  1,
		TlogReplicas: 0,
		PullReplicas: 0,
	}
}

var recognizedOptions = []string{
	OptionNumShards,
	OptionRouterName,
	OptionNrtReplicas,
	OptionReplicationFactor,
	OptionTlogReplicas,
	OptionPullReplicas,
}

// UnknownOptions returns the keys of opts that are not recognized, sorted.
func UnknownOptions(opts CreateOptions) []string {
	unknown := lo.Filter(lo.Keys(opts), func(k string, _ int) bool {
		return !lo.Contains(recognizedOptions, k)
	})
	sort.Strings(unknown)
	return unknown
}

// ResolveCreateOptions validates opts and merges them over DefaultCreateSettings.
// nrt_replicas wins over replication_factor when both are given.
func ResolveCreateOptions(opts CreateOptions) (CreateSettings, error) {
	if unknown := UnknownOptions(opts); len(unknown) > 0 {
		details := lo.Map(unknown, func(k string, _ int) *errorx.CliniaError {
			return errorx.InvalidArgumentErrorf("option %q is not recognized", k)
		})
		return CreateSettings{}, errorx.InvalidArgumentErrorf("unknown collection option(s): %s", strings.Join(unknown, ", ")).WithDetails(details...)
	}

	s := DefaultCreateSettings()
	var invalid []*errorx.CliniaError

	count := func(key string, lower int, dst *int) {
		v, ok := opts[key]
		if !ok {
			return
		}
		n, err := cast.ToIntE(v)
		if err != nil {
			invalid = append(invalid, errorx.InvalidArgumentErrorf("option %q must be an integer, got %v", key, v))
			return
		}
		if n < lower {
			invalid = append(invalid, errorx.InvalidArgumentErrorf("option %q must be at least %d, got %d", key, lower, n))
			return
		}
		*dst = n
	}

	count(OptionNumShards, 1, &s.NumShards)
	count(OptionTlogReplicas, 0, &s.TlogReplicas)
	count(OptionPullReplicas, 0, &s.PullReplicas)
	if _, ok := opts[OptionNrtReplicas]; ok {
		count(OptionNrtReplicas, 0, &s.NrtReplicas)
	} else {
		count(OptionReplicationFactor, 0, &s.NrtReplicas)
	}

	if v, ok := opts[OptionRouterName]; ok {
		router, err := cast.ToStringE(v)
		switch {
		case err != nil:
			invalid = append(invalid, errorx.InvalidArgumentErrorf("option %q must be a string, got %v", OptionRouterName, v))
		case strings.TrimSpace(router) == "":
			invalid = append(invalid, errorx.InvalidArgumentErrorf("option %q must not be empty", OptionRouterName))
		default:
			s.RouterName = router
		}
	}

	if len(invalid) > 0 {
		return CreateSettings{}, errorx.InvalidArgumentErrorf("invalid collection option(s)").WithDetails(invalid...)
	}

	return s, nil
}
