package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/docket/internal/confidence"
	"github.com/JaimeStill/docket/internal/settings"
)

func thresholdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "threshold",
		Short: "Read or change the confidence threshold",
	}

	cmd.AddCommand(thresholdGetCmd())
	cmd.AddCommand(thresholdSetCmd())

	return cmd
}

func thresholdGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the threshold classifications currently use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				resp := settings.ThresholdResponse{Threshold: a.domain.Settings.Threshold(ctx)}
				if jsonOutput(cmd) {
					return writeJSON(cmd.OutOrStdout(), resp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%g%%\n", resp.Threshold)
				return nil
			})
		},
	}
}

func thresholdSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <percent|default>",
		Short: "Set the confidence threshold, or clear it with \"default\"",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold, err := parseThreshold(args[0])
			if err != nil {
				return err
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				s, err := a.domain.Settings.Update(ctx, settings.UpdateCommand{ConfidenceThreshold: threshold})
				if err != nil {
					return err
				}
				if jsonOutput(cmd) {
					return writeJSON(cmd.OutOrStdout(), s)
				}
				if s.ConfidenceThreshold == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "threshold cleared; using default %g%%\n", confidence.DefaultThreshold)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "threshold set to %g%%\n", *s.ConfidenceThreshold)
				return nil
			})
		},
	}
}

// parseThreshold accepts a percentage with an optional trailing %, or
// "default" to clear the stored value.
func parseThreshold(arg string) (*float64, error) {
	arg = strings.TrimSpace(arg)
	if strings.EqualFold(arg, "default") {
		return nil, nil
	}

	v, err := strconv.ParseFloat(strings.TrimSuffix(arg, "%"), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", settings.ErrInvalidThreshold, arg)
	}
	if !confidence.ValidThreshold(v) {
		return nil, fmt.Errorf("%w: %g is outside 0-100", settings.ErrInvalidThreshold, v)
	}
	return &v, nil
}
