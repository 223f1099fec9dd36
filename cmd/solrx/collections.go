package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/clinia/solrx/errorx"
	"github.com/clinia/solrx/solrx"
)

func newStatusCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "status [COLLECTION]",
		Short: "Show the cluster status, optionally for a single collection",
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(*cobra.Command, []string) error {
			return validateOutput(output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := a.manager.Status(cmd.Context(), args...)
			if err != nil {
				return err
			}

			collections, err := status.Collections()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output == outputJSON {
				return writeJSON(out, map[string]interface{}{
					"live_nodes":  status.LiveNodes,
					"aliases":     status.Aliases.Map(),
					"collections": collections,
				})
			}

			if len(args) > 0 && len(collections) == 0 {
				return errorx.NotFoundErrorf("collection %s does not exist", args[0])
			}

			if err := writeCollections(out, output, collections); err != nil {
				return err
			}
			if len(args) > 0 {
				for _, c := range collections {
					writeShards(out, c)
				}
				return nil
			}

			fmt.Fprintf(out, "Live nodes: %s\n", strings.Join(status.LiveNodes, ", "))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format, table or json")

	return cmd
}

func newCollectionsCmd(a *app) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "collections",
		Short: "List the collections of the cluster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			collections, err := a.manager.Collections(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if quiet {
				for _, c := range collections {
					fmt.Fprintln(out, c.Name)
				}
				return nil
			}
			return writeCollections(out, outputTable, collections)
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print collection names")

	return cmd
}

type createFlags struct {
	numShards         int
	replicationFactor int
	nrtReplicas       int
	tlogReplicas      int
	pullReplicas      int
	routerName        string
	options           map[string]string
}

// createOptions only carries the flags that were set so that defaults stay with the manager.
func (f *createFlags) createOptions(cmd *cobra.Command) solrx.CreateOptions {
	opts := solrx.CreateOptions{}
	for key, value := range f.options {
		opts[key] = value
	}

	flags := cmd.Flags()
	for flag, set := range map[string]func(){
		"num-shards":         func() { opts[solrx.OptionNumShards] = f.numShards },
		"replication-factor": func() { opts[solrx.OptionReplicationFactor] = f.replicationFactor },
		"nrt-replicas":       func() { opts[solrx.OptionNrtReplicas] = f.nrtReplicas },
		"tlog-replicas":      func() { opts[solrx.OptionTlogReplicas] = f.tlogReplicas },
		"pull-replicas":      func() { opts[solrx.OptionPullReplicas] = f.pullReplicas },
		"router-name":        func() { opts[solrx.OptionRouterName] = f.routerName },
	} {
		if flags.Changed(flag) {
			set()
		}
	}

	return opts
}

func newCreateCmd(a *app) *cobra.Command {
	f := &createFlags{}

	cmd := &cobra.Command{
		Use:   "create COLLECTION",
		Short: "Create a collection",
		Example: `  solrx create products --num-shards 2 --nrt-replicas 2
  solrx create products --option num_shards=2 --option replication_factor=3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.manager.Create(cmd.Context(), args[0], f.createOptions(cmd))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s collection %s created in %dms\n", text.FgGreen.Sprint("✓"), args[0], resp.QTime())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&f.numShards, "num-shards", 1, "Number of shards")
	flags.IntVar(&f.replicationFactor, "replication-factor", 1, "Number of NRT replicas when --nrt-replicas is not set")
	flags.IntVar(&f.nrtReplicas, "nrt-replicas", 1, "Number of NRT replicas per shard")
	flags.IntVar(&f.tlogReplicas, "tlog-replicas", 0, "Number of TLOG replicas per shard")
	flags.IntVar(&f.pullReplicas, "pull-replicas", 0, "Number of PULL replicas per shard")
	flags.StringVar(&f.routerName, "router-name", solrx.DefaultRouterName, "Document router")
	flags.StringToStringVar(&f.options, "option", nil, "Collection option as key=value, e.g. num_shards=2")

	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete COLLECTION",
		Short: "Delete a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireConfirmation(yes, "delete collection "+args[0]); err != nil {
				return err
			}

			if _, err := a.manager.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s collection %s deleted\n", text.FgGreen.Sprint("✓"), args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the deletion")

	return cmd
}

func newEnsureCmd(a *app) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "ensure COLLECTION...",
		Short: "Create the collections that do not exist yet, with default settings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if concurrency < 1 {
				return errorx.InvalidArgumentErrorf("concurrency must be at least 1, got %d", concurrency)
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(concurrency)
			for _, name := range args {
				g.Go(func() error {
					if err := a.manager.EnsureCollection(ctx, name); err != nil {
						a.l.WithError(err).WithField("collection", name).Errorf("unable to ensure collection %s", name)
						return err
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %d collection(s) ensured\n", text.FgGreen.Sprint("✓"), len(args))
			return nil
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Number of collections ensured at the same time")

	return cmd
}
