package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"esc/internal/buildpipeline"
	"esc/internal/observ"
)

// printTimings writes the stage summary to stderr when --timings is set.
func printTimings(cmd *cobra.Command, timings buildpipeline.Timings) error {
	return printReport(cmd, timings.Report())
}

func printReport(cmd *cobra.Command, report observ.Report) error {
	show, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if !show {
		return nil
	}
	_, err = fmt.Fprint(cmd.ErrOrStderr(), report.Summary())
	return err
}
