package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"esc/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Banner(colorEnabled))
		return err
	},
}
