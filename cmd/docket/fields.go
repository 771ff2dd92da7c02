package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/docket/internal/fields"
	"github.com/JaimeStill/docket/pkg/pagination"
)

func fieldsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "Manage the field reference list",
	}

	cmd.AddCommand(fieldsImportCmd())
	cmd.AddCommand(fieldsListCmd())

	return cmd
}

func fieldsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Create or update field definitions from a YAML seed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			cmds, err := fields.ParseSeed(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				result, err := a.domain.Fields.Import(ctx, cmds)
				if err != nil {
					return err
				}
				if jsonOutput(cmd) {
					return writeJSON(cmd.OutOrStdout(), result)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %d, updated %d\n", result.Created, result.Updated)
				return nil
			})
		},
	}
}

func fieldsListCmd() *cobra.Command {
	var requiredOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List field definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filters fields.Filters
			if requiredOnly {
				filters.Required = &requiredOnly
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				all, err := listAllFields(ctx, a.domain.Fields, filters)
				if err != nil {
					return err
				}
				if jsonOutput(cmd) {
					return writeJSON(cmd.OutOrStdout(), all)
				}
				return writeFields(cmd.OutOrStdout(), all)
			})
		},
	}

	cmd.Flags().BoolVar(&requiredOnly, "required", false, "Only list required fields")

	return cmd
}

func listAllFields(ctx context.Context, sys fields.System, filters fields.Filters) ([]fields.Field, error) {
	all := []fields.Field{}
	page := pagination.PageRequest{Page: 1, PageSize: 100}

	for {
		result, err := sys.List(ctx, page, filters)
		if err != nil {
			return nil, err
		}
		all = append(all, result.Data...)
		if !result.HasNext() {
			return all, nil
		}
		page.Page++
	}
}

func writeFields(w io.Writer, list []fields.Field) error {
	if len(list) == 0 {
		fmt.Fprintln(w, "no field definitions; every extracted field counts toward confidence")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLABEL\tREQUIRED")
	for _, f := range list {
		fmt.Fprintf(tw, "%s\t%s\t%t\n", f.Name, f.Label, f.Required)
	}
	return tw.Flush()
}
