package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/clinia/solrx/retryx"
	"github.com/clinia/solrx/solrx"
)

func newPingCmd(a *app) *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the cluster answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if wait > 0 {
				if err := solrx.WaitForCluster(ctx, a.transport, a.l, retryx.WithMaxElapsedTime(wait)); err != nil {
					return err
				}
			}

			info, err := a.transport.SystemInfo(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s answered: solr %s in %s mode\n",
				text.FgGreen.Sprint("✓"), a.transport.Endpoint().URL(""), info.SolrVersion, info.Mode)
			return nil
		},
	}
	cmd.Flags().DurationVar(&wait, "wait", 0, "Wait up to this long for the cluster to answer")

	return cmd
}
