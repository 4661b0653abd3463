package cli

import (
	"fmt"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/timecalc"
	"github.com/spf13/cobra"
)

func newDurationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "duration CHECK_IN CHECK_OUT",
		Short: "Show worked time between a check-in and a check-out",
		Example: `  hourscalc duration 08:00 17:30
  hourscalc duration 22:00 06:00`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := timecalc.ComputeDuration(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), d)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	var threshold string

	cmd := &cobra.Command{
		Use:   "status CHECK_IN CHECK_OUT",
		Short: "Classify a day as on_time, late or absent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := timecalc.ParseTimeOfDay(threshold)
			if err != nil {
				return fmt.Errorf("--threshold: %w", err)
			}

			res, err := timecalc.Recompute(args[0], args[1], limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", res.Status, res.Duration)
			return nil
		},
	}

	cmd.Flags().StringVar(&threshold, "threshold", timecalc.DefaultLateThreshold.String(), "check-in time after which a day is late")
	return cmd
}

func newShiftCmd() *cobra.Command {
	var breakMinutes int

	cmd := &cobra.Command{
		Use:     "shift START END",
		Short:   "Show net working hours of a shift",
		Example: `  hourscalc shift 22:00 06:00 --break 60`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := timecalc.ComputeShiftDuration(args[0], args[1], breakMinutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), net)
			return nil
		},
	}

	cmd.Flags().IntVarP(&breakMinutes, "break", "b", 0, "unpaid break in minutes")
	return cmd
}
