package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"esc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "esc [flags] file.es",
	Short: "esc language compiler",
	Long: `esc compiles .es (ASCII or pictograph syntax) and .el (s-expression) sources
to native executables or WASM modules through the LLVM tools on PATH.`,
	Args:               cobra.MaximumNArgs(1),
	SilenceErrors:      true,
	SilenceUsage:       true,
	PersistentPreRunE:  setupRun,
	PersistentPostRunE: teardownRun,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runBuild(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(irCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.String("ui", "auto", "progress UI mode (auto|on|off)")
	pf.Bool("no-std", false, "do not load the std prelude")
	pf.Bool("keep-tmp", false, "keep the temporary build directory")
	pf.Bool("print-commands", false, "echo backend tool command lines")
	pf.String("cpu-profile", "", "write CPU profile to file")
	pf.String("mem-profile", "", "write heap profile to file")
	pf.String("runtime-trace", "", "write runtime trace to file")

	addBuildFlags(rootCmd)
}

// main runs the root command; any error is rendered to stderr and the
// process exits with status 1.
func main() {
	rootCmd.Version = version.Version
	err := rootCmd.Execute()
	// PostRun не вызывается, если RunE вернул ошибку
	if stopErr := stopProfiling(); err == nil {
		err = stopErr
	}
	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
