// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package configx

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/clinia/solrx/errorx"
	"github.com/ory/jsonschema/v3"
)

// schemaLeaf describes a scalar configuration key found in the schema.
type schemaLeaf struct {
	Path    string
	Type    string
	Default gjson.Result
}

func compileSchema(ctx context.Context, schema []byte) (*jsonschema.Schema, error) {
	id := gjson.GetBytes(schema, "$id").String()
	if id == "" {
		id = fmt.Sprintf("%s.json", uuid.Must(uuid.NewRandom()).String())
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(id, bytes.NewBuffer(schema)); err != nil {
		return nil, errorx.InternalErrorf("unable to load the configuration schema: %s", err).WithOriginalError(err)
	}

	s, err := compiler.Compile(ctx, id)
	if err != nil {
		return nil, errorx.InternalErrorf("unable to compile the configuration schema: %s", err).WithOriginalError(err)
	}

	return s, nil
}

// schemaLeaves walks the nested "properties" of the schema and returns every scalar key, in schema order.
func schemaLeaves(schema []byte) []schemaLeaf {
	var leaves []schemaLeaf

	var walk func(prefix string, node gjson.Result)
	walk = func(prefix string, node gjson.Result) {
		props := node.Get("properties")
		if props.Exists() && props.IsObject() {
			props.ForEach(func(key, value gjson.Result) bool {
				path := key.String()
				if prefix != "" {
					path = prefix + "." + path
				}
				walk(path, value)
				return true
			})
			return
		}

		if prefix == "" {
			return
		}

		leaves = append(leaves, schemaLeaf{
			Path:    prefix,
			Type:    node.Get("type").String(),
			Default: node.Get("default"),
		})
	}

	walk("", gjson.ParseBytes(schema))
	return leaves
}

// schemaDefaults returns the defaults declared in the schema keyed by their dotted path.
func schemaDefaults(leaves []schemaLeaf) map[string]interface{} {
	defaults := map[string]interface{}{}
	for _, leaf := range leaves {
		if leaf.Default.Exists() {
			defaults[leaf.Path] = leaf.Default.Value()
		}
	}
	return defaults
}

// envKey converts a dotted configuration path to its environment variable name, without prefix.
func envKey(path string) string {
	return strings.ToUpper(strings.ReplaceAll(path, ".", "_"))
}
