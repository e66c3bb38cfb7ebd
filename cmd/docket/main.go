// Command docket runs checklist sweeps and rule-set checks from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "docket",
		Short:         "Onboarding document checklists",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(sweepCmd(), templatesCmd())
	return cmd
}
