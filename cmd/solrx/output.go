package main

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pkg/errors"

	"github.com/clinia/solrx/errorx"
	"github.com/clinia/solrx/solrx"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

func validateOutput(format string) error {
	switch format {
	case outputTable, outputJSON:
		return nil
	default:
		return errorx.InvalidArgumentErrorf("unknown output format %q, expected %s or %s", format, outputTable, outputJSON)
	}
}

func newTable(out io.Writer, header ...interface{}) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row(header))
	return t
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return errors.WithStack(enc.Encode(v))
}

func health(h string) string {
	switch h {
	case "GREEN":
		return text.FgGreen.Sprint(h)
	case "YELLOW":
		return text.FgYellow.Sprint(h)
	case "RED":
		return text.FgRed.Sprint(h)
	case "":
		return text.FgHiBlack.Sprint("-")
	default:
		return text.FgHiBlack.Sprint(h)
	}
}

func writeCollections(out io.Writer, format string, collections []solrx.Collection) error {
	if format == outputJSON {
		return writeJSON(out, collections)
	}

	t := newTable(out, "Collection", "Shards", "NRT", "TLOG", "PULL", "Router", "Health", "Aliases")
	for _, c := range collections {
		t.AppendRow(table.Row{
			c.Name,
			c.NumShards,
			c.NrtReplicas,
			c.TlogReplicas,
			c.PullReplicas,
			c.Router.Name,
			health(c.Health),
			strings.Join(c.Aliases, ", "),
		})
	}
	t.AppendFooter(table.Row{"Total", strconv.Itoa(len(collections))})
	t.Render()
	return nil
}

func writeShards(out io.Writer, c solrx.Collection) {
	t := newTable(out, "Shard", "Range", "State", "Replica", "Type", "Node", "Leader")
	t.SetTitle(c.Name)
	for _, s := range c.Shards {
		for _, r := range s.Replicas {
			leader := ""
			if r.Leader {
				leader = text.FgGreen.Sprint("yes")
			}
			t.AppendRow(table.Row{s.Name, s.Range, s.State, r.Name, r.Type, r.NodeName, leader})
		}
		if len(s.Replicas) == 0 {
			t.AppendRow(table.Row{s.Name, s.Range, s.State})
		}
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, AutoMerge: true}, {Number: 2, AutoMerge: true}})
	t.Render()
}

func writeAliases(out io.Writer, format string, mappings *solrx.AliasMappings) error {
	if format == outputJSON {
		return writeJSON(out, mappings.Map())
	}

	t := newTable(out, "Alias", "Collection")
	for _, alias := range mappings.Names() {
		collection, _ := mappings.Collection(alias)
		t.AppendRow(table.Row{alias, collection})
	}
	t.Render()
	return nil
}
