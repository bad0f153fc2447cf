package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// colorEnabled is decided once per run from --color and the terminal.
var colorEnabled bool

func setupRun(cmd *cobra.Command, _ []string) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	enabled, err := resolveColor(mode, !color.NoColor && isTerminal(os.Stderr))
	if err != nil {
		return err
	}
	colorEnabled = enabled
	color.NoColor = !enabled
	return setupProfiling(cmd)
}

func teardownRun(*cobra.Command, []string) error {
	return stopProfiling()
}

// resolveColor maps --color to a decision. auto follows tty, which is
// already false when NO_COLOR is set.
func resolveColor(mode string, tty bool) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(mode)) {
	case "", "auto":
		return tty, nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}

func quiet(cmd *cobra.Command) bool {
	q, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && q
}
