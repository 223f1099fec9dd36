package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func newAliasCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "alias COLLECTION ALIAS",
		Short: "Point an alias at a collection, replacing its previous target",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, alias := args[0], args[1]
			if _, err := a.manager.Alias(cmd.Context(), collection, alias); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s alias %s -> %s\n", text.FgGreen.Sprint("✓"), alias, collection)
			return nil
		},
	}
}

func newDeleteAliasCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-alias ALIAS",
		Short: "Delete an alias, the collection it points at is kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.manager.DeleteAlias(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s alias %s deleted\n", text.FgGreen.Sprint("✓"), args[0])
			return nil
		},
	}
}

func newAliasesCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "aliases",
		Short: "List the aliases and the collection each one points at",
		Args:  cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			return validateOutput(output)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			mappings, err := a.manager.AliasMappings(cmd.Context())
			if err != nil {
				return err
			}
			return writeAliases(cmd.OutOrStdout(), output, mappings)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format, table or json")

	return cmd
}
