package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"esc/internal/prof"
)

var profSession *prof.Session

// setupProfiling starts the profilers named by the persistent flags. The
// session is stopped by stopProfiling, which is safe to call twice.
func setupProfiling(cmd *cobra.Command) error {
	root := cmd.Root()

	cpuProfile, err := root.PersistentFlags().GetString("cpu-profile")
	if err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	memProfile, err := root.PersistentFlags().GetString("mem-profile")
	if err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	tracePath, err := root.PersistentFlags().GetString("runtime-trace")
	if err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if cpuProfile == "" && memProfile == "" && tracePath == "" {
		return nil
	}

	session, err := prof.Start(prof.Options{CPU: cpuProfile, Mem: memProfile, Trace: tracePath})
	if err != nil {
		return err
	}
	profSession = session
	return nil
}

func stopProfiling() error {
	s := profSession
	profSession = nil
	return s.Stop()
}
