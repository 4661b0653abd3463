// Package cli implements hourscalc, a command-line front end to the working
// hours calculators used by the API.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the hourscalc command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hourscalc",
		Short: "Compute attendance durations, statuses and shift working hours",
		Long: `hourscalc runs the timekeeping calculators without a server or database.
Times are "HH:MM" in 24-hour form; "-" marks a missing check-in or check-out.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newDurationCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newShiftCmd())
	return rootCmd
}

// Execute is the entry point called from main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
