package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "docket",
		Short:         "Operator tooling for the docket service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().Bool("json", false, "Write output as JSON")

	root.AddCommand(reconcileCmd())
	root.AddCommand(fieldsCmd())
	root.AddCommand(thresholdCmd())

	return root
}
