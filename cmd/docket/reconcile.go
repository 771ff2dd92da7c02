package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/docket/internal/reconcile"
)

func reconcileCmd() *cobra.Command {
	var opts reconcile.Options

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Report documents whose stored confidence state is stale",
		Long: `Classify every document under the current threshold and required field
set and report those whose stored state differs. With --apply the stale states
are rewritten. Documents signed off as VERIFIED are reported as manual
overrides and only rewritten with --include-verified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				report, err := a.domain.Reconcile.Run(ctx, opts)
				if err != nil {
					return err
				}
				if jsonOutput(cmd) {
					return writeJSON(cmd.OutOrStdout(), report)
				}
				return writeReport(cmd.OutOrStdout(), report)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.Apply, "apply", false, "Rewrite stale confidence states")
	cmd.Flags().BoolVar(&opts.IncludeVerified, "include-verified", false, "Also rewrite documents signed off as VERIFIED")

	return cmd
}

func writeReport(w io.Writer, report *reconcile.Report) error {
	fmt.Fprintf(w, "threshold: %g%%\n", report.Threshold)
	fmt.Fprintf(w, "scanned:   %d\n", report.Scanned)
	fmt.Fprintf(w, "stale:     %d\n", len(report.Mismatches))
	fmt.Fprintf(w, "applied:   %d\n", report.Applied)

	if len(report.Mismatches) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DOCUMENT\tFILENAME\tSTORED\tCOMPUTED\tAPPLIED\tNOTE")
	for _, m := range report.Mismatches {
		note := ""
		if m.ManualOverride {
			note = "manual override"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%s\n",
			m.DocumentID, m.Filename, m.Stored, m.Computed, m.Applied, note)
	}
	return tw.Flush()
}
