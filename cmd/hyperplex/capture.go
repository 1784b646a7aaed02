package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	captureIterations int
	captureInterval   time.Duration
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture, describe and store screenshots in a loop",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		iterations := cfg.Capture.Iterations
		if cmd.Flags().Changed("iterations") {
			iterations = captureIterations
		}
		interval := cfg.Capture.Interval
		if cmd.Flags().Changed("interval") {
			interval = captureInterval
		}

		p, err := newPipeline(cmd.Context(), cfg, pipelineDeps{capture: true})
		if err != nil {
			return err
		}

		n, err := p.RunCaptureLoop(cmd.Context(), iterations, interval)
		fmt.Fprintf(cmd.OutOrStdout(), "captured %d of %d screenshots into %s\n", n, iterations, cfg.GraphPath)
		return err
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)
	captureCmd.Flags().IntVarP(&captureIterations, "iterations", "n", 0, "Number of captures (overrides CAPTURE_ITERATIONS)")
	captureCmd.Flags().DurationVar(&captureInterval, "interval", 0, "Delay between captures (overrides CAPTURE_INTERVAL_MS)")
}
